package steam

import "fmt"

// 查询超出物性表范围
type OutOfRangeError struct {
	Quantity string  `json:"quantity"`
	Value    float64 `json:"value"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Reason   string  `json:"reason,omitempty"`
}

func (e *OutOfRangeError) Error() string {
	msg := fmt.Sprintf("steam: %s %g out of range [%g, %g]", e.Quantity, e.Value, e.Min, e.Max)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
