package units

import (
	"fmt"

	"rankine/model"
)

// 单位换算，内部计算基准为 SI:
// 压力 kPa, 温度 ℃, 比焓/功 kJ/kg, 比熵 kJ/(kg·K), 比容 m³/kg
// 英制: psia, ℉, BTU/lb, BTU/(lb·R), ft³/lb

type Kind int

const (
	Pressure Kind = iota
	Temperature
	Enthalpy
	Entropy
	Work
	SpecificVolume
)

const (
	kPaPerPsi            = 6.894757293168361
	kJPerKgPerBTUPerLb   = 2.326
	kJPerKgKPerBTUPerLbR = 4.1868
	m3PerKgPerFt3PerLb   = 0.062427960576144606
)

var labels = map[Kind][2]string{
	Pressure:       {"kPa", "psia"},
	Temperature:    {"C", "F"},
	Enthalpy:       {"kJ/kg", "BTU/lb"},
	Entropy:        {"kJ/(kg*K)", "BTU/(lb*R)"},
	Work:           {"kJ/kg", "BTU/lb"},
	SpecificVolume: {"m^3/kg", "ft^3/lb"},
}

func (k Kind) String() string {
	switch k {
	case Pressure:
		return "pressure"
	case Temperature:
		return "temperature"
	case Enthalpy:
		return "enthalpy"
	case Entropy:
		return "entropy"
	case Work:
		return "work"
	case SpecificVolume:
		return "specific volume"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// 带单位的数值
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func (q Quantity) String() string {
	return fmt.Sprintf("%.4g %s", q.Value, q.Unit)
}

// 单位标签
func Label(k Kind, sys model.UnitSystem) string {
	l, ok := labels[k]
	if !ok {
		return ""
	}
	if sys == model.English {
		return l[1]
	}
	return l[0]
}

// SI 数值转为 sys 下的带单位数值
func New(k Kind, si float64, sys model.UnitSystem) Quantity {
	return Quantity{Value: FromSI(k, si, sys), Unit: Label(k, sys)}
}

// SI -> sys
func FromSI(k Kind, v float64, sys model.UnitSystem) float64 {
	if sys != model.English {
		return v
	}
	switch k {
	case Pressure:
		return v / kPaPerPsi
	case Temperature:
		return v*1.8 + 32
	case Enthalpy, Work:
		return v / kJPerKgPerBTUPerLb
	case Entropy:
		return v / kJPerKgKPerBTUPerLbR
	case SpecificVolume:
		return v / m3PerKgPerFt3PerLb
	}
	return v
}

// sys -> SI
func ToSI(k Kind, v float64, sys model.UnitSystem) float64 {
	if sys != model.English {
		return v
	}
	switch k {
	case Pressure:
		return v * kPaPerPsi
	case Temperature:
		return (v - 32) / 1.8
	case Enthalpy, Work:
		return v * kJPerKgPerBTUPerLb
	case Entropy:
		return v * kJPerKgKPerBTUPerLbR
	case SpecificVolume:
		return v * m3PerKgPerFt3PerLb
	}
	return v
}

// 任意两种单位制之间换算
func Convert(k Kind, v float64, from, to model.UnitSystem) float64 {
	if from == to {
		return v
	}
	return FromSI(k, ToSI(k, v, from), to)
}

// sys 下全部物理量的单位标签，键为物理量名称
func Labels(sys model.UnitSystem) map[string]string {
	out := make(map[string]string, len(labels))
	for k := range labels {
		out[k.String()] = Label(k, sys)
	}
	return out
}
