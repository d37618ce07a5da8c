package plot

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rankine/calculator"
	"rankine/model"
	"rankine/steam"
	"rankine/units"
)

func solveT(t *testing.T, in model.CycleInputs) (*Builder, *model.CycleResult) {
	t.Helper()
	tb, err := steam.Default()
	require.NoError(t, err)
	res, err := calculator.NewSolver(tb).Solve(in)
	require.NoError(t, err)
	return NewBuilder(tb, 20), res
}

func idealCycle(pLow float64) model.CycleInputs {
	return model.CycleInputs{PHigh: 8000, PLow: pLow, Inlet: model.Quality(1), TurbineEfficiency: 1}
}

func TestBuildCurve_TsCycle(t *testing.T) {
	b, res := solveT(t, idealCycle(8))
	c, err := b.BuildCurve(res, Entropy, Temperature, false, false, model.SI)
	require.NoError(t, err)
	assert.Equal(t, "kJ/(kg*K)", c.X.Unit)
	assert.Equal(t, "C", c.Y.Unit)

	cycle := slices.Collect(c.Cycle)
	require.Len(t, cycle, 5)
	assert.Equal(t, cycle[0], cycle[4])
	for i, p := range cycle[:4] {
		st := res.States[i]
		assert.Equal(t, Point{X: st.Entropy, Y: st.Temperature}, p)
	}
	// 1 -> 2 等熵
	assert.Equal(t, cycle[0].X, cycle[1].X)
}

func TestBuildCurve_Dome(t *testing.T) {
	b, res := solveT(t, idealCycle(8))
	c, err := b.BuildCurve(res, Entropy, Temperature, false, false, model.SI)
	require.NoError(t, err)

	dome := slices.Collect(c.Dome)
	require.Len(t, dome, 2*20-1)
	assert.Equal(t, Point{X: res.SatLow.Sf, Y: res.SatLow.Temperature}, dome[0])
	assert.Equal(t, Point{X: res.SatLow.Sg, Y: res.SatLow.Temperature}, dome[len(dome)-1])

	// 临界点温度最高
	top := dome[19]
	for _, p := range dome {
		assert.LessOrEqual(t, p.Y, top.Y)
	}
	// 沿饱和液线上行、饱和汽线下行，熵一直增加
	for i := 1; i < len(dome); i++ {
		assert.Greater(t, dome[i].X, dome[i-1].X, "i=%d", i)
	}
}

func TestBuildCurve_Restartable(t *testing.T) {
	b, res := solveT(t, idealCycle(10))
	c, err := b.BuildCurve(res, Entropy, Temperature, false, true, model.SI)
	require.NoError(t, err)
	first := slices.Collect(c.Points())
	second := slices.Collect(c.Points())
	assert.Equal(t, first, second)
	assert.Len(t, first, 2*20-1+5)
}

func TestBuildCurve_EarlyBreak(t *testing.T) {
	b, res := solveT(t, idealCycle(10))
	c, err := b.BuildCurve(res, Entropy, Temperature, false, false, model.SI)
	require.NoError(t, err)
	n := 0
	for range c.Points() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestBuildCurve_LogAxis(t *testing.T) {
	b, res := solveT(t, idealCycle(8))
	c, err := b.BuildCurve(res, Enthalpy, Pressure, false, true, model.SI)
	require.NoError(t, err)
	cycle := slices.Collect(c.Cycle)
	assert.InDelta(t, math.Log10(8000), cycle[0].Y, 1e-12)
	assert.InDelta(t, math.Log10(8), cycle[2].Y, 1e-12)
	assert.Equal(t, res.State(1).Enthalpy, cycle[0].X)
}

func TestBuildCurve_EnglishUnits(t *testing.T) {
	b, res := solveT(t, idealCycle(8))
	c, err := b.BuildCurve(res, Entropy, Temperature, false, false, model.English)
	require.NoError(t, err)
	assert.Equal(t, "F", c.Y.Unit)
	cycle := slices.Collect(c.Cycle)
	assert.InDelta(t, units.FromSI(units.Entropy, res.State(1).Entropy, model.English), cycle[0].X, 1e-12)
	assert.InDelta(t, res.State(1).Temperature*1.8+32, cycle[0].Y, 1e-12)
}

func TestBuildCurve_LogOfZero(t *testing.T) {
	// 三相点处饱和液熵为 0
	b, res := solveT(t, idealCycle(0.6117))
	assert.Equal(t, 0.0, res.State(3).Entropy)

	_, err := b.BuildCurve(res, Entropy, Temperature, true, false, model.SI)
	var pde *PlotDomainError
	require.True(t, errors.As(err, &pde))
	assert.Equal(t, "x", pde.Axis)
	assert.Equal(t, Entropy, pde.Variable)
	assert.Equal(t, 0.0, pde.Value)

	// 线性坐标没有限制
	_, err = b.BuildCurve(res, Entropy, Temperature, false, true, model.SI)
	assert.NoError(t, err)
}

func TestBuildCurve_Boiler(t *testing.T) {
	b, res := solveT(t, model.CycleInputs{PHigh: 8000, PLow: 8, Inlet: model.Temperature(480), TurbineEfficiency: 1})
	c, err := b.BuildCurve(res, Entropy, Temperature, false, false, model.SI)
	require.NoError(t, err)
	boiler := slices.Collect(c.Boiler)
	require.Len(t, boiler, 4)
	assert.Equal(t, Point{X: res.State(4).Entropy, Y: res.State(4).Temperature}, boiler[0])
	assert.Equal(t, Point{X: res.SatHigh.Sf, Y: res.SatHigh.Temperature}, boiler[1])
	assert.Equal(t, Point{X: res.SatHigh.Sg, Y: res.SatHigh.Temperature}, boiler[2])
	assert.InDelta(t, 480, boiler[3].Y, 1e-9)

	b, res = solveT(t, idealCycle(8))
	c, err = b.BuildCurve(res, Entropy, Temperature, false, false, model.SI)
	require.NoError(t, err)
	assert.Len(t, slices.Collect(c.Boiler), 3)
}

func TestBuildRequest(t *testing.T) {
	b, res := solveT(t, idealCycle(8))
	c, err := b.BuildRequest(res, model.PlotRequest{X: "entropy", Y: "T"}, model.SI)
	require.NoError(t, err)
	assert.Equal(t, Entropy, c.X.Variable)

	_, err = b.BuildRequest(res, model.PlotRequest{X: "v", Y: "T"}, model.SI)
	assert.Error(t, err)
	_, err = b.BuildCurve(res, Variable("x"), Temperature, false, false, model.SI)
	assert.Error(t, err)
}

func TestCurve_MarshalJSON(t *testing.T) {
	b, res := solveT(t, idealCycle(8))
	c, err := b.BuildCurve(res, Entropy, Temperature, false, false, model.SI)
	require.NoError(t, err)
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var out struct {
		X      Axis    `json:"x"`
		Dome   []Point `json:"dome"`
		Cycle  []Point `json:"cycle"`
		Boiler []Point `json:"boiler"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, Entropy, out.X.Variable)
	assert.Len(t, out.Dome, 39)
	assert.Len(t, out.Cycle, 5)
	assert.Len(t, out.Boiler, 3)
}

func TestLogspace(t *testing.T) {
	ps := logspace(10, 1000, 3)
	assert.Equal(t, 10.0, ps[0])
	assert.InDelta(t, 100, ps[1], 1e-9)
	assert.Equal(t, 1000.0, ps[2])
}
