package calculator

import (
	"fmt"

	"rankine/model"
)

// 输入参数非法，在查表之前检出
type InvalidInputError struct {
	Field  string  `json:"field"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s=%g: %s", e.Field, e.Value, e.Reason)
}

// 某个状态点查表失败
type SolveError struct {
	State int
	Err   error
}

var stateNames = [model.NumStatePoints + 1]string{
	"",
	"turbine inlet",
	"turbine exit",
	"condenser exit",
	"pump exit",
}

func StateName(n int) string {
	if n < 1 || n > model.NumStatePoints {
		return "unknown"
	}
	return stateNames[n]
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("state %d (%s): %v", e.State, StateName(e.State), e.Err)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}
