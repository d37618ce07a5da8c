package model

// 相态
type Phase string

const (
	SubcooledLiquid  Phase = "subcooled_liquid"
	SaturatedMixture Phase = "saturated_mixture"
	SuperheatedVapor Phase = "superheated_vapor"
)

// 单位制，只影响展示，计算始终在 SI 下进行
type UnitSystem string

const (
	SI      UnitSystem = "SI"
	English UnitSystem = "English"
)

func (u UnitSystem) Valid() bool {
	return u == SI || u == English
}

// 透平入口条件
type InletMode string

const (
	QualityMode     InletMode = "quality"
	TemperatureMode InletMode = "temperature"
)

// 状态点编号
const (
	TurbineInlet   = 1
	TurbineExit    = 2
	CondenserExit  = 3
	PumpExit       = 4
	NumStatePoints = 4
)

// 前后端通信消息类型
const (
	MsgSolve  = "solve"
	MsgSweep  = "sweep"
	MsgUnits  = "units"
	MsgResult = "result"
	MsgError  = "error"
)
