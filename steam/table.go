package steam

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"

	log "github.com/sirupsen/logrus"
	"rankine/model"
)

// 水蒸气物性表
// 1. 饱和表，按压力排列
// 2. 过热表，按等压线排列，每条等压线按温度排列
// 表加载后只读，可被多个 goroutine 并发查询

//go:embed data/saturated.json data/superheated.json
var dataFS embed.FS

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

type satRow struct {
	P  float64 `json:"p"`
	T  float64 `json:"t"`
	Vf float64 `json:"vf"`
	Hf float64 `json:"hf"`
	Hg float64 `json:"hg"`
	Sf float64 `json:"sf"`
	Sg float64 `json:"sg"`
}

type supRow struct {
	T float64 `json:"t"`
	H float64 `json:"h"`
	S float64 `json:"s"`
}

type satFile struct {
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Rows        []satRow `json:"rows"`
}

type supFile struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Isobars     []struct {
		P    float64  `json:"p"`
		Rows []supRow `json:"rows"`
	} `json:"isobars"`
}

type Table struct {
	Version string

	sat  []satRow
	satP []float64

	iso  []isobar
	isoP []float64
}

// 表的压力范围, kPa
type Range struct {
	SaturatedMin   float64 `json:"saturated_min"`
	SaturatedMax   float64 `json:"saturated_max"`
	SuperheatedMin float64 `json:"superheated_min"`
	SuperheatedMax float64 `json:"superheated_max"`
}

// 内置物性表，只解析一次
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		sat, err := dataFS.ReadFile("data/saturated.json")
		if err != nil {
			defaultErr = err
			return
		}
		sup, err := dataFS.ReadFile("data/superheated.json")
		if err != nil {
			defaultErr = err
			return
		}
		defaultTable, defaultErr = Load(bytes.NewReader(sat), bytes.NewReader(sup))
	})
	return defaultTable, defaultErr
}

// 从饱和表和过热表读取物性表
func Load(satData, supData io.Reader) (*Table, error) {
	var sf satFile
	if err := json.NewDecoder(satData).Decode(&sf); err != nil {
		return nil, fmt.Errorf("steam: decode saturated table: %w", err)
	}
	var pf supFile
	if err := json.NewDecoder(supData).Decode(&pf); err != nil {
		return nil, fmt.Errorf("steam: decode superheated table: %w", err)
	}
	if len(sf.Rows) < 2 {
		return nil, fmt.Errorf("steam: saturated table needs at least 2 rows, got %d", len(sf.Rows))
	}
	if len(pf.Isobars) < 2 {
		return nil, fmt.Errorf("steam: superheated table needs at least 2 isobars, got %d", len(pf.Isobars))
	}

	t := &Table{
		Version: sf.Version,
		sat:     sf.Rows,
		satP:    make([]float64, len(sf.Rows)),
	}
	for i, r := range sf.Rows {
		if i > 0 && (r.P <= sf.Rows[i-1].P || r.T <= sf.Rows[i-1].T) {
			return nil, fmt.Errorf("steam: saturated row %d not increasing in pressure and temperature", i)
		}
		if r.Hf > r.Hg || r.Sf > r.Sg {
			return nil, fmt.Errorf("steam: saturated row %d has liquid above vapour", i)
		}
		t.satP[i] = r.P
	}

	for i, raw := range pf.Isobars {
		if i > 0 && raw.P <= pf.Isobars[i-1].P {
			return nil, fmt.Errorf("steam: isobar %d not increasing in pressure", i)
		}
		sat, err := t.SaturatedAtPressure(raw.P)
		if err != nil {
			return nil, fmt.Errorf("steam: isobar %g kPa: %w", raw.P, err)
		}
		// 每条等压线的第一行固定为该压力下的饱和蒸汽，不高于饱和温度的表行丢弃
		rows := []supRow{{T: sat.Temperature, H: sat.Hg, S: sat.Sg}}
		for _, r := range raw.Rows {
			if r.T > sat.Temperature {
				rows = append(rows, r)
			}
		}
		iso, err := newIsobar(raw.P, rows)
		if err != nil {
			return nil, err
		}
		t.iso = append(t.iso, iso)
		t.isoP = append(t.isoP, raw.P)
	}

	log.WithFields(log.Fields{
		"version":     t.Version,
		"saturated":   len(t.sat),
		"isobars":     len(t.iso),
		"superheated": pf.Version,
	}).Info("加载水蒸气物性表")
	return t, nil
}

func (t *Table) Range() Range {
	return Range{
		SaturatedMin:   t.satP[0],
		SaturatedMax:   t.satP[len(t.satP)-1],
		SuperheatedMin: t.isoP[0],
		SuperheatedMax: t.isoP[len(t.isoP)-1],
	}
}

// 临界压力，即饱和表最后一行
func (t *Table) CriticalPressure() float64 {
	return t.satP[len(t.satP)-1]
}

// 给定压力下的饱和物性
func (t *Table) SaturatedAtPressure(p float64) (model.SaturatedProperties, error) {
	n := len(t.satP)
	if p < t.satP[0] || p > t.satP[n-1] || math.IsNaN(p) {
		return model.SaturatedProperties{}, &OutOfRangeError{
			Quantity: "pressure",
			Value:    p,
			Min:      t.satP[0],
			Max:      t.satP[n-1],
			Reason:   "outside saturated table",
		}
	}
	i, exact := bracket(t.satP, p)
	if exact {
		return t.sat[i].props(), nil
	}
	a, b := t.sat[i], t.sat[i+1]
	in := func(ya, yb float64) float64 { return linearInterp(p, a.P, ya, b.P, yb) }
	return model.SaturatedProperties{
		Pressure:    p,
		Temperature: in(a.T, b.T),
		Vf:          in(a.Vf, b.Vf),
		Hf:          in(a.Hf, b.Hf),
		Hg:          in(a.Hg, b.Hg),
		Sf:          in(a.Sf, b.Sf),
		Sg:          in(a.Sg, b.Sg),
	}, nil
}

// 过热区 (P, T) 查询
// T 低于该压力下的饱和温度时落在饱和区内，应使用饱和表
func (t *Table) Superheated(p, temp float64) (model.SuperheatedProperties, error) {
	if err := t.checkSuperheatedPressure(p); err != nil {
		return model.SuperheatedProperties{}, err
	}
	sat, err := t.SaturatedAtPressure(p)
	if err != nil {
		return model.SuperheatedProperties{}, err
	}
	if temp < sat.Temperature {
		return model.SuperheatedProperties{}, &OutOfRangeError{
			Quantity: "temperature",
			Value:    temp,
			Min:      sat.Temperature,
			Max:      t.iso[len(t.iso)-1].last(colT),
			Reason:   fmt.Sprintf("inside saturation dome at %g kPa", p),
		}
	}
	sh, err := t.superheatedBy(p, colT, temp)
	if err != nil {
		return model.SuperheatedProperties{}, err
	}
	sh.Temperature = temp
	return sh, nil
}

// 过热区 (P, s) 查询
func (t *Table) SuperheatedByEntropy(p, s float64) (model.SuperheatedProperties, error) {
	if err := t.checkSuperheatedPressure(p); err != nil {
		return model.SuperheatedProperties{}, err
	}
	return t.superheatedBy(p, colS, s)
}

// 过热区 (P, h) 查询
func (t *Table) SuperheatedByEnthalpy(p, h float64) (model.SuperheatedProperties, error) {
	if err := t.checkSuperheatedPressure(p); err != nil {
		return model.SuperheatedProperties{}, err
	}
	return t.superheatedBy(p, colH, h)
}

func (t *Table) checkSuperheatedPressure(p float64) error {
	n := len(t.isoP)
	if p < t.isoP[0] || p > t.isoP[n-1] || math.IsNaN(p) {
		return &OutOfRangeError{
			Quantity: "pressure",
			Value:    p,
			Min:      t.isoP[0],
			Max:      t.isoP[n-1],
			Reason:   "outside superheated table",
		}
	}
	return nil
}

// 两条相邻等压线之间按相对位置 xi = (v - v_sat(p)) / (v_max(p) - v_sat(p)) 在两条线上取点,
// 对压力插值后把饱和端修正到 p 下的饱和蒸汽状态, xi = 0 时结果即为饱和蒸汽
func (t *Table) superheatedBy(p float64, by column, v float64) (model.SuperheatedProperties, error) {
	i, exact := bracket(t.isoP, p)
	if exact {
		return t.iso[i].at(by, v)
	}
	a, b := t.iso[i], t.iso[i+1]
	sat, err := t.SaturatedAtPressure(p)
	if err != nil {
		return model.SuperheatedProperties{}, err
	}
	satState := [3]float64{colT: sat.Temperature, colH: sat.Hg, colS: sat.Sg}
	lo := satState[by]
	hi := linearInterp(p, a.p, a.last(by), b.p, b.last(by))
	if v < lo || v > hi || math.IsNaN(v) {
		return model.SuperheatedProperties{}, &OutOfRangeError{
			Quantity: by.String(),
			Value:    v,
			Min:      lo,
			Max:      hi,
			Reason:   fmt.Sprintf("outside superheated region at %g kPa", p),
		}
	}
	if v == lo {
		return model.SuperheatedProperties{Pressure: p, Temperature: sat.Temperature, Enthalpy: sat.Hg, Entropy: sat.Sg}, nil
	}

	xi := (v - lo) / (hi - lo)
	pa, err := a.atFraction(by, xi)
	if err != nil {
		return model.SuperheatedProperties{}, err
	}
	pb, err := b.atFraction(by, xi)
	if err != nil {
		return model.SuperheatedProperties{}, err
	}
	ya := [3]float64{colT: pa.Temperature, colH: pa.Enthalpy, colS: pa.Entropy}
	yb := [3]float64{colT: pb.Temperature, colH: pb.Enthalpy, colS: pb.Entropy}
	var out [3]float64
	for c := range out {
		y := linearInterp(p, a.p, ya[c], b.p, yb[c])
		y0 := linearInterp(p, a.p, a.first(column(c)), b.p, b.first(column(c)))
		out[c] = y + (1-xi)*(satState[c]-y0)
	}
	out[by] = v
	return model.SuperheatedProperties{
		Pressure:    p,
		Temperature: out[colT],
		Enthalpy:    out[colH],
		Entropy:     out[colS],
	}, nil
}

func (r satRow) props() model.SaturatedProperties {
	return model.SaturatedProperties{
		Pressure:    r.P,
		Temperature: r.T,
		Vf:          r.Vf,
		Hf:          r.Hf,
		Hg:          r.Hg,
		Sf:          r.Sf,
		Sg:          r.Sg,
	}
}
