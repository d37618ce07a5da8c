package calculator

import (
	"fmt"
	"strings"

	"rankine/model"
	"rankine/units"
)

// 按单位制展示的计算结果，每个数值带单位

type StateReport struct {
	Index       int            `json:"index"`
	Name        string         `json:"name"`
	Pressure    units.Quantity `json:"pressure"`
	Temperature units.Quantity `json:"temperature"`
	Enthalpy    units.Quantity `json:"enthalpy"`
	Entropy     units.Quantity `json:"entropy"`
	Quality     *float64       `json:"quality,omitempty"`
	Phase       model.Phase    `json:"phase"`
}

type SaturationReport struct {
	Pressure    units.Quantity `json:"pressure"`
	Temperature units.Quantity `json:"temperature"`
	Vf          units.Quantity `json:"vf"`
	Hf          units.Quantity `json:"hf"`
	Hg          units.Quantity `json:"hg"`
	Sf          units.Quantity `json:"sf"`
	Sg          units.Quantity `json:"sg"`
}

type Report struct {
	Units             model.UnitSystem                  `json:"units"`
	States            [model.NumStatePoints]StateReport `json:"states"`
	TurbineWork       units.Quantity                    `json:"turbine_work"`
	PumpWork          units.Quantity                    `json:"pump_work"`
	HeatAdded         units.Quantity                    `json:"heat_added"`
	ThermalEfficiency float64                           `json:"thermal_efficiency"`
	SatLow            SaturationReport                  `json:"sat_low"`
	SatHigh           SaturationReport                  `json:"sat_high"`
}

func NewReport(r *model.CycleResult, sys model.UnitSystem) Report {
	rep := Report{
		Units:             sys,
		TurbineWork:       units.New(units.Work, r.TurbineWork, sys),
		PumpWork:          units.New(units.Work, r.PumpWork, sys),
		HeatAdded:         units.New(units.Work, r.HeatAdded, sys),
		ThermalEfficiency: r.ThermalEfficiency,
		SatLow:            newSaturationReport(r.SatLow, sys),
		SatHigh:           newSaturationReport(r.SatHigh, sys),
	}
	for i, st := range r.States {
		rep.States[i] = StateReport{
			Index:       i + 1,
			Name:        StateName(i + 1),
			Pressure:    units.New(units.Pressure, st.Pressure, sys),
			Temperature: units.New(units.Temperature, st.Temperature, sys),
			Enthalpy:    units.New(units.Enthalpy, st.Enthalpy, sys),
			Entropy:     units.New(units.Entropy, st.Entropy, sys),
			Quality:     st.Quality,
			Phase:       st.Phase,
		}
	}
	return rep
}

func newSaturationReport(s model.SaturatedProperties, sys model.UnitSystem) SaturationReport {
	return SaturationReport{
		Pressure:    units.New(units.Pressure, s.Pressure, sys),
		Temperature: units.New(units.Temperature, s.Temperature, sys),
		Vf:          units.New(units.SpecificVolume, s.Vf, sys),
		Hf:          units.New(units.Enthalpy, s.Hf, sys),
		Hg:          units.New(units.Enthalpy, s.Hg, sys),
		Sf:          units.New(units.Entropy, s.Sf, sys),
		Sg:          units.New(units.Entropy, s.Sg, sys),
	}
}

func (s SaturationReport) String() string {
	return fmt.Sprintf("PSat = %.2f %s, TSat = %.2f %s\nhf = %.2f %s, hg = %.2f %s\nsf = %.4f %s, sg = %.4f %s\nvf = %.6f %s",
		s.Pressure.Value, s.Pressure.Unit, s.Temperature.Value, s.Temperature.Unit,
		s.Hf.Value, s.Hf.Unit, s.Hg.Value, s.Hg.Unit,
		s.Sf.Value, s.Sf.Unit, s.Sg.Value, s.Sg.Unit,
		s.Vf.Value, s.Vf.Unit)
}

// 文本形式，每行一个数值
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Saturated properties at PLow:\n%s\n", r.SatLow)
	fmt.Fprintf(&b, "Saturated properties at PHigh:\n%s\n", r.SatHigh)
	for _, st := range r.States {
		fmt.Fprintf(&b, "H%d = %.2f %s (%s, T = %.2f %s, s = %.4f %s", st.Index,
			st.Enthalpy.Value, st.Enthalpy.Unit, st.Name,
			st.Temperature.Value, st.Temperature.Unit,
			st.Entropy.Value, st.Entropy.Unit)
		if st.Quality != nil {
			fmt.Fprintf(&b, ", x = %.4f", *st.Quality)
		}
		b.WriteString(")\n")
	}
	fmt.Fprintf(&b, "Turbine Work = %.2f %s\n", r.TurbineWork.Value, r.TurbineWork.Unit)
	fmt.Fprintf(&b, "Pump Work = %.2f %s\n", r.PumpWork.Value, r.PumpWork.Unit)
	fmt.Fprintf(&b, "Heat Added = %.2f %s\n", r.HeatAdded.Value, r.HeatAdded.Unit)
	fmt.Fprintf(&b, "Thermal Efficiency = %.2f%%\n", r.ThermalEfficiency*100)
	return b.String()
}
