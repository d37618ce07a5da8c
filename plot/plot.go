package plot

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"slices"

	"rankine/model"
	"rankine/units"
)

// 循环曲线数据
// 1. 饱和线: P_low 到临界压力之间按对数等距取点，先饱和液线(压力升序)，再饱和汽线(压力降序)
// 2. 循环: 1 -> 2 -> 3 -> 4 -> 1
// 3. 锅炉吸热段: 4 -> 饱和液 -> 饱和汽 (-> 1)
// 每次 range 都重新换算坐标，不缓存

const DefaultDomePoints = 40

type Variable string

const (
	Temperature Variable = "T"
	Pressure    Variable = "P"
	Enthalpy    Variable = "h"
	Entropy     Variable = "s"
)

func ParseVariable(name string) (Variable, error) {
	switch name {
	case "T", "temperature":
		return Temperature, nil
	case "P", "pressure":
		return Pressure, nil
	case "h", "enthalpy":
		return Enthalpy, nil
	case "s", "entropy":
		return Entropy, nil
	}
	return "", fmt.Errorf("plot: unknown variable %q", name)
}

func (v Variable) kind() units.Kind {
	switch v {
	case Pressure:
		return units.Pressure
	case Enthalpy:
		return units.Enthalpy
	case Entropy:
		return units.Entropy
	}
	return units.Temperature
}

func (v Variable) of(st thermo) float64 {
	switch v {
	case Pressure:
		return st.p
	case Enthalpy:
		return st.h
	case Entropy:
		return st.s
	}
	return st.t
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Axis struct {
	Variable Variable `json:"variable"`
	Unit     string   `json:"unit"`
	Log      bool     `json:"log"`

	sys model.UnitSystem
}

// 坐标值: 先换算到展示单位，再按需取 log10
func (a Axis) coord(st thermo) float64 {
	v := units.FromSI(a.Variable.kind(), a.Variable.of(st), a.sys)
	if a.Log {
		return math.Log10(v)
	}
	return v
}

func (a Axis) check(name string, pts []thermo) error {
	if !a.Log {
		return nil
	}
	for _, st := range pts {
		v := units.FromSI(a.Variable.kind(), a.Variable.of(st), a.sys)
		if !(v > 0) {
			return &PlotDomainError{Axis: name, Variable: a.Variable, Value: v}
		}
	}
	return nil
}

type Curve struct {
	X      Axis
	Y      Axis
	Dome   iter.Seq[Point]
	Cycle  iter.Seq[Point]
	Boiler iter.Seq[Point]
}

// 饱和线之后接循环四点
func (c Curve) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for p := range c.Dome {
			if !yield(p) {
				return
			}
		}
		for p := range c.Cycle {
			if !yield(p) {
				return
			}
		}
	}
}

func (c Curve) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X      Axis    `json:"x"`
		Y      Axis    `json:"y"`
		Dome   []Point `json:"dome"`
		Cycle  []Point `json:"cycle"`
		Boiler []Point `json:"boiler"`
	}{c.X, c.Y, slices.Collect(c.Dome), slices.Collect(c.Cycle), slices.Collect(c.Boiler)})
}

// 饱和物性查询，由 steam.Table 实现
type SaturationTable interface {
	SaturatedAtPressure(p float64) (model.SaturatedProperties, error)
	CriticalPressure() float64
}

type Builder struct {
	table      SaturationTable
	domePoints int
}

func NewBuilder(table SaturationTable, domePoints int) *Builder {
	if domePoints < 2 {
		domePoints = DefaultDomePoints
	}
	return &Builder{table: table, domePoints: domePoints}
}

type thermo struct {
	p, t, h, s float64
}

func fromState(st model.StatePoint) thermo {
	return thermo{p: st.Pressure, t: st.Temperature, h: st.Enthalpy, s: st.Entropy}
}

// 按前端的绘图请求构造曲线，变量名可用简写或全称
func (b *Builder) BuildRequest(res *model.CycleResult, req model.PlotRequest, sys model.UnitSystem) (Curve, error) {
	x, err := ParseVariable(req.X)
	if err != nil {
		return Curve{}, err
	}
	y, err := ParseVariable(req.Y)
	if err != nil {
		return Curve{}, err
	}
	return b.BuildCurve(res, x, y, req.LogX, req.LogY, sys)
}

func (b *Builder) BuildCurve(res *model.CycleResult, x, y Variable, logX, logY bool, sys model.UnitSystem) (Curve, error) {
	for _, v := range []Variable{x, y} {
		if _, err := ParseVariable(string(v)); err != nil {
			return Curve{}, err
		}
	}
	ax := Axis{Variable: x, Unit: units.Label(x.kind(), sys), Log: logX, sys: sys}
	ay := Axis{Variable: y, Unit: units.Label(y.kind(), sys), Log: logY, sys: sys}

	dome, err := b.dome(res.Inputs.PLow)
	if err != nil {
		return Curve{}, err
	}
	cycle := cyclePath(res)
	boiler := boilerPath(res)
	for _, pts := range [][]thermo{cycle, boiler, dome} {
		if err := ax.check("x", pts); err != nil {
			return Curve{}, err
		}
		if err := ay.check("y", pts); err != nil {
			return Curve{}, err
		}
	}
	return Curve{
		X:      ax,
		Y:      ay,
		Dome:   series(dome, ax, ay),
		Cycle:  series(cycle, ax, ay),
		Boiler: series(boiler, ax, ay),
	}, nil
}

func series(pts []thermo, ax, ay Axis) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, st := range pts {
			if !yield(Point{X: ax.coord(st), Y: ay.coord(st)}) {
				return
			}
		}
	}
}

func (b *Builder) dome(pLow float64) ([]thermo, error) {
	ps := logspace(pLow, b.table.CriticalPressure(), b.domePoints)
	n := len(ps)
	pts := make([]thermo, 2*n-1)
	for i, p := range ps {
		sat, err := b.table.SaturatedAtPressure(p)
		if err != nil {
			return nil, fmt.Errorf("plot: dome at %g kPa: %w", p, err)
		}
		pts[i] = thermo{p: p, t: sat.Temperature, h: sat.Hf, s: sat.Sf}
		// 临界点只出现一次
		if i < n-1 {
			pts[2*n-2-i] = thermo{p: p, t: sat.Temperature, h: sat.Hg, s: sat.Sg}
		}
	}
	return pts, nil
}

func cyclePath(res *model.CycleResult) []thermo {
	pts := make([]thermo, 0, model.NumStatePoints+1)
	for _, st := range res.States {
		pts = append(pts, fromState(st))
	}
	return append(pts, pts[0])
}

func boilerPath(res *model.CycleResult) []thermo {
	sat := res.SatHigh
	st1 := fromState(res.State(model.TurbineInlet))
	liquid := thermo{p: sat.Pressure, t: sat.Temperature, h: sat.Hf, s: sat.Sf}
	pts := []thermo{fromState(res.State(model.PumpExit)), liquid}
	if res.State(model.TurbineInlet).Phase == model.SuperheatedVapor {
		pts = append(pts, thermo{p: sat.Pressure, t: sat.Temperature, h: sat.Hg, s: sat.Sg})
	}
	if st1 != pts[len(pts)-1] {
		pts = append(pts, st1)
	}
	return pts
}

// a 到 b 之间按对数等距取 n 个点，两端精确
func logspace(a, b float64, n int) []float64 {
	ps := make([]float64, n)
	la, lb := math.Log(a), math.Log(b)
	for i := range ps {
		ps[i] = math.Exp(la + (lb-la)*float64(i)/float64(n-1))
	}
	ps[0], ps[n-1] = a, b
	return ps
}
