package model

// 所有内部数值均为 SI 基准:
// 压力 kPa, 温度 ℃, 比焓 kJ/kg, 比熵 kJ/(kg·K), 比容 m³/kg

// 透平入口条件，Quality(x) 或 Temperature(T)
type InletCondition struct {
	Mode  InletMode `json:"mode"`
	Value float64   `json:"value"`
}

func Quality(x float64) InletCondition {
	return InletCondition{Mode: QualityMode, Value: x}
}

func Temperature(t float64) InletCondition {
	return InletCondition{Mode: TemperatureMode, Value: t}
}

// 循环输入参数
type CycleInputs struct {
	PHigh             float64        `json:"p_high"`
	PLow              float64        `json:"p_low"`
	Inlet             InletCondition `json:"inlet"`
	TurbineEfficiency float64        `json:"turbine_efficiency"`
}

// 饱和物性
type SaturatedProperties struct {
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
	Vf          float64 `json:"vf"`
	Hf          float64 `json:"hf"`
	Hg          float64 `json:"hg"`
	Sf          float64 `json:"sf"`
	Sg          float64 `json:"sg"`
}

// 过热蒸汽物性
type SuperheatedProperties struct {
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
	Enthalpy    float64 `json:"enthalpy"`
	Entropy     float64 `json:"entropy"`
}

// 状态点，计算完成后不再修改
type StatePoint struct {
	Pressure    float64  `json:"pressure"`
	Temperature float64  `json:"temperature"`
	Enthalpy    float64  `json:"enthalpy"`
	Entropy     float64  `json:"entropy"`
	Quality     *float64 `json:"quality,omitempty"`
	Phase       Phase    `json:"phase"`
}

// 计算结果
// States 依次为: 1 透平入口, 2 透平出口, 3 冷凝器出口, 4 泵出口
type CycleResult struct {
	Inputs            CycleInputs                `json:"inputs"`
	States            [NumStatePoints]StatePoint `json:"states"`
	TurbineWork       float64                    `json:"turbine_work"`
	PumpWork          float64                    `json:"pump_work"`
	HeatAdded         float64                    `json:"heat_added"`
	ThermalEfficiency float64                    `json:"thermal_efficiency"`
	SatLow            SaturatedProperties        `json:"sat_low"`
	SatHigh           SaturatedProperties        `json:"sat_high"`
}

// 按编号(1~4)获取状态点
func (r *CycleResult) State(n int) StatePoint {
	return r.States[n-1]
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 绘图请求
type PlotRequest struct {
	X    string `json:"x"`
	Y    string `json:"y"`
	LogX bool   `json:"log_x"`
	LogY bool   `json:"log_y"`
}

// solve 请求, inputs 以 Units 所指单位制给出
type SolveRequest struct {
	Inputs CycleInputs `json:"inputs"`
	Units  UnitSystem  `json:"units"`
	Plot   PlotRequest `json:"plot"`
}

// sweep 请求
type SweepRequest struct {
	Inputs []CycleInputs `json:"inputs"`
	Units  UnitSystem    `json:"units"`
}
