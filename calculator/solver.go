package calculator

import (
	"math"

	log "github.com/sirupsen/logrus"
	"rankine/model"
	"rankine/steam"
	"rankine/units"
)

// 朗肯循环计算
// 1. 状态3: 冷凝器出口，P_low 下的饱和液
// 2. 状态4: 泵出口，等熵压缩到 P_high，泵功按定比容近似 w_p = vf * (P_high - P_low)
// 3. 状态1: 透平入口，按干度或过热温度确定
// 4. 状态2: 透平出口，先求等熵焓 h2s，再按透平效率修正
// 每次调用从头计算，不缓存，不修改任何共享数据

type Solver struct {
	table PropertyTable
}

func NewSolver(table PropertyTable) *Solver {
	return &Solver{table: table}
}

// 把 sys 单位制下的输入换算为 SI，干度与效率无量纲不换算
func Normalize(in model.CycleInputs, sys model.UnitSystem) model.CycleInputs {
	out := in
	out.PHigh = units.ToSI(units.Pressure, in.PHigh, sys)
	out.PLow = units.ToSI(units.Pressure, in.PLow, sys)
	if in.Inlet.Mode == model.TemperatureMode {
		out.Inlet.Value = units.ToSI(units.Temperature, in.Inlet.Value, sys)
	}
	return out
}

// 校验输入，不做任何查表
func Validate(in model.CycleInputs) error {
	eta := in.TurbineEfficiency
	if math.IsNaN(eta) || eta <= 0 || eta > 1 {
		return &InvalidInputError{Field: "turbine_efficiency", Value: eta, Reason: "must be in (0, 1]"}
	}
	switch in.Inlet.Mode {
	case model.QualityMode:
		x := in.Inlet.Value
		if math.IsNaN(x) || x < 0 || x > 1 {
			return &InvalidInputError{Field: "quality", Value: x, Reason: "must be in [0, 1]"}
		}
	case model.TemperatureMode:
		if math.IsNaN(in.Inlet.Value) || math.IsInf(in.Inlet.Value, 0) {
			return &InvalidInputError{Field: "temperature", Value: in.Inlet.Value, Reason: "must be finite"}
		}
	default:
		return &InvalidInputError{Field: "inlet_mode", Reason: "must be quality or temperature, got " + string(in.Inlet.Mode)}
	}
	if math.IsNaN(in.PLow) || in.PLow <= 0 {
		return &InvalidInputError{Field: "p_low", Value: in.PLow, Reason: "must be positive"}
	}
	if math.IsNaN(in.PHigh) || in.PHigh <= in.PLow {
		return &InvalidInputError{Field: "p_high", Value: in.PHigh, Reason: "must be greater than p_low"}
	}
	return nil
}

func inputFields(in model.CycleInputs) log.Fields {
	return log.Fields{
		"PHigh":      in.PHigh,
		"PLow":       in.PLow,
		"InletMode":  in.Inlet.Mode,
		"InletValue": in.Inlet.Value,
		"Efficiency": in.TurbineEfficiency,
	}
}

// 先按调用方的单位制校验，错误中的数值与输入一致，再换算为 SI 计算
func (s *Solver) SolveIn(in model.CycleInputs, sys model.UnitSystem) (*model.CycleResult, error) {
	if err := Validate(in); err != nil {
		log.WithFields(inputFields(in)).WithField("Units", sys).WithError(err).Warn("输入参数错误")
		return nil, err
	}
	return s.Solve(Normalize(in, sys))
}

func (s *Solver) Solve(in model.CycleInputs) (*model.CycleResult, error) {
	fields := inputFields(in)
	if err := Validate(in); err != nil {
		log.WithFields(fields).WithError(err).Warn("输入参数错误")
		return nil, err
	}
	res, err := s.solve(in)
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("循环计算失败")
		return nil, err
	}
	log.WithFields(fields).WithField("ThermalEfficiency", res.ThermalEfficiency).Debug("循环计算完成")
	return res, nil
}

func (s *Solver) solve(in model.CycleInputs) (*model.CycleResult, error) {
	// 状态3
	satLow, err := s.table.SaturatedAtPressure(in.PLow)
	if err != nil {
		return nil, &SolveError{State: model.CondenserExit, Err: err}
	}
	st3 := model.StatePoint{
		Pressure:    in.PLow,
		Temperature: satLow.Temperature,
		Enthalpy:    satLow.Hf,
		Entropy:     satLow.Sf,
		Quality:     quality(0),
		Phase:       model.SaturatedMixture,
	}

	// 状态4
	st4 := model.StatePoint{
		Pressure:    in.PHigh,
		Temperature: st3.Temperature,
		Enthalpy:    st3.Enthalpy + satLow.Vf*(in.PHigh-in.PLow),
		Entropy:     st3.Entropy,
		Phase:       model.SubcooledLiquid,
	}

	// 状态1
	satHigh, err := s.table.SaturatedAtPressure(in.PHigh)
	if err != nil {
		return nil, &SolveError{State: model.TurbineInlet, Err: err}
	}
	st1, err := s.turbineInlet(in, satHigh)
	if err != nil {
		return nil, &SolveError{State: model.TurbineInlet, Err: err}
	}

	// 状态2
	st2, err := s.turbineExit(in, st1, satLow)
	if err != nil {
		return nil, &SolveError{State: model.TurbineExit, Err: err}
	}

	res := &model.CycleResult{
		Inputs:  in,
		States:  [model.NumStatePoints]model.StatePoint{st1, st2, st3, st4},
		SatLow:  satLow,
		SatHigh: satHigh,
	}
	res.TurbineWork = st1.Enthalpy - st2.Enthalpy
	res.PumpWork = st4.Enthalpy - st3.Enthalpy
	res.HeatAdded = st1.Enthalpy - st4.Enthalpy
	res.ThermalEfficiency = (res.TurbineWork - res.PumpWork) / res.HeatAdded
	return res, nil
}

func (s *Solver) turbineInlet(in model.CycleInputs, sat model.SaturatedProperties) (model.StatePoint, error) {
	if in.Inlet.Mode == model.QualityMode {
		x := in.Inlet.Value
		return model.StatePoint{
			Pressure:    in.PHigh,
			Temperature: sat.Temperature,
			Enthalpy:    steam.Mix(sat.Hf, sat.Hg, x),
			Entropy:     steam.Mix(sat.Sf, sat.Sg, x),
			Quality:     quality(x),
			Phase:       model.SaturatedMixture,
		}, nil
	}
	// 恰好为饱和温度时是干饱和蒸汽
	if in.Inlet.Value == sat.Temperature {
		return model.StatePoint{
			Pressure:    in.PHigh,
			Temperature: sat.Temperature,
			Enthalpy:    sat.Hg,
			Entropy:     sat.Sg,
			Quality:     quality(1),
			Phase:       model.SaturatedMixture,
		}, nil
	}
	sh, err := s.table.Superheated(in.PHigh, in.Inlet.Value)
	if err != nil {
		return model.StatePoint{}, err
	}
	return model.StatePoint{
		Pressure:    in.PHigh,
		Temperature: sh.Temperature,
		Enthalpy:    sh.Enthalpy,
		Entropy:     sh.Entropy,
		Phase:       model.SuperheatedVapor,
	}, nil
}

func (s *Solver) turbineExit(in model.CycleInputs, st1 model.StatePoint, sat model.SaturatedProperties) (model.StatePoint, error) {
	iso, err := s.isentropicExit(in.PLow, st1.Entropy, sat)
	if err != nil {
		return model.StatePoint{}, err
	}
	eta := in.TurbineEfficiency
	// h2 = h1 - eta*(h1-h2s)，eta = 1 时精确等于 h2s
	h2 := (1-eta)*st1.Enthalpy + eta*iso.Enthalpy
	if h2 == iso.Enthalpy {
		return iso, nil
	}

	// 实际出口状态，由 h2 反求干度
	if h2 <= sat.Hg {
		x := (h2 - sat.Hf) / (sat.Hg - sat.Hf)
		return model.StatePoint{
			Pressure:    in.PLow,
			Temperature: sat.Temperature,
			Enthalpy:    h2,
			Entropy:     steam.Mix(sat.Sf, sat.Sg, x),
			Quality:     quality(x),
			Phase:       model.SaturatedMixture,
		}, nil
	}
	sh, err := s.table.SuperheatedByEnthalpy(in.PLow, h2)
	if err != nil {
		return model.StatePoint{}, err
	}
	return model.StatePoint{
		Pressure:    in.PLow,
		Temperature: sh.Temperature,
		Enthalpy:    h2,
		Entropy:     sh.Entropy,
		Phase:       model.SuperheatedVapor,
	}, nil
}

// 等熵膨胀终点 2s
func (s *Solver) isentropicExit(p, s2s float64, sat model.SaturatedProperties) (model.StatePoint, error) {
	if s2s < sat.Sf {
		return model.StatePoint{}, &steam.OutOfRangeError{
			Quantity: "entropy",
			Value:    s2s,
			Min:      sat.Sf,
			Max:      sat.Sg,
			Reason:   "isentropic expansion ends in compressed liquid",
		}
	}
	if s2s <= sat.Sg {
		x := (s2s - sat.Sf) / (sat.Sg - sat.Sf)
		return model.StatePoint{
			Pressure:    p,
			Temperature: sat.Temperature,
			Enthalpy:    steam.Mix(sat.Hf, sat.Hg, x),
			Entropy:     s2s,
			Quality:     quality(x),
			Phase:       model.SaturatedMixture,
		}, nil
	}
	sh, err := s.table.SuperheatedByEntropy(p, s2s)
	if err != nil {
		return model.StatePoint{}, err
	}
	return model.StatePoint{
		Pressure:    p,
		Temperature: sh.Temperature,
		Enthalpy:    sh.Enthalpy,
		Entropy:     s2s,
		Phase:       model.SuperheatedVapor,
	}, nil
}

func quality(x float64) *float64 {
	return &x
}
