package calculator

import "rankine/model"

// calculator 的接口定义

type Calculator interface {
	// 以 SI 输入计算循环
	Solve(in model.CycleInputs) (*model.CycleResult, error)

	// 以 sys 单位制输入计算循环
	SolveIn(in model.CycleInputs, sys model.UnitSystem) (*model.CycleResult, error)
}

// 物性查询接口，由 steam.Table 实现
type PropertyTable interface {
	SaturatedAtPressure(p float64) (model.SaturatedProperties, error)
	Superheated(p, t float64) (model.SuperheatedProperties, error)
	SuperheatedByEntropy(p, s float64) (model.SuperheatedProperties, error)
	SuperheatedByEnthalpy(p, h float64) (model.SuperheatedProperties, error)
}
