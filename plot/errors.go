package plot

import "fmt"

// 对数坐标轴上出现非正值
type PlotDomainError struct {
	Axis     string   `json:"axis"`
	Variable Variable `json:"variable"`
	Value    float64  `json:"value"`
}

func (e *PlotDomainError) Error() string {
	return fmt.Sprintf("plot: %s axis is logarithmic but %s = %g is not positive", e.Axis, e.Variable, e.Value)
}
