package steam

import (
	"fmt"
	"math"

	"rankine/model"
)

type column int

const (
	colT column = iota
	colH
	colS
)

func (c column) String() string {
	switch c {
	case colT:
		return "temperature"
	case colH:
		return "enthalpy"
	case colS:
		return "entropy"
	}
	return "unknown"
}

// 一条等压线，t/h/s 均随温度严格递增
type isobar struct {
	p    float64
	cols [3][]float64
}

func newIsobar(p float64, rows []supRow) (isobar, error) {
	if len(rows) < 2 {
		return isobar{}, fmt.Errorf("steam: isobar %g kPa needs at least 2 rows", p)
	}
	iso := isobar{p: p}
	for c := range iso.cols {
		iso.cols[c] = make([]float64, len(rows))
	}
	for i, r := range rows {
		iso.cols[colT][i] = r.T
		iso.cols[colH][i] = r.H
		iso.cols[colS][i] = r.S
		if i == 0 {
			continue
		}
		for c := range iso.cols {
			if iso.cols[c][i] <= iso.cols[c][i-1] {
				return isobar{}, fmt.Errorf("steam: isobar %g kPa row %d: %s not increasing", p, i, column(c))
			}
		}
	}
	return iso, nil
}

func (iso isobar) first(c column) float64 {
	return iso.cols[c][0]
}

func (iso isobar) last(c column) float64 {
	xs := iso.cols[c]
	return xs[len(xs)-1]
}

// 沿等压线按 by 列插值，不外推
func (iso isobar) at(by column, v float64) (model.SuperheatedProperties, error) {
	xs := iso.cols[by]
	if v < xs[0] || v > xs[len(xs)-1] {
		return model.SuperheatedProperties{}, &OutOfRangeError{
			Quantity: by.String(),
			Value:    v,
			Min:      xs[0],
			Max:      xs[len(xs)-1],
			Reason:   fmt.Sprintf("outside %g kPa isobar", iso.p),
		}
	}
	i, exact := bracket(xs, v)
	get := func(c column) float64 {
		ys := iso.cols[c]
		if exact {
			return ys[i]
		}
		return linearInterp(v, xs[i], ys[i], xs[i+1], ys[i+1])
	}
	return model.SuperheatedProperties{
		Pressure:    iso.p,
		Temperature: get(colT),
		Enthalpy:    get(colH),
		Entropy:     get(colS),
	}, nil
}

// 按相对位置取点, xi = 0 为饱和蒸汽端, xi = 1 为表的最高温度
func (iso isobar) atFraction(by column, xi float64) (model.SuperheatedProperties, error) {
	lo, hi := iso.first(by), iso.last(by)
	v := lo + xi*(hi-lo)
	return iso.at(by, math.Min(math.Max(v, lo), hi))
}
