package calculator

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"rankine/model"
)

// 批量计算，每个工况互相独立，按 workers 个 goroutine 并发执行
// 结果按输入顺序返回，单个工况失败只记录在对应的 SweepPoint 中

type SweepPoint struct {
	Index  int                `json:"index"`
	Inputs model.CycleInputs  `json:"inputs"`
	Result *model.CycleResult `json:"result,omitempty"`
	Err    error              `json:"-"`
}

type task struct {
	index  int
	inputs model.CycleInputs
}

func Sweep(ctx context.Context, c Calculator, inputs []model.CycleInputs, sys model.UnitSystem, workers int) ([]SweepPoint, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}
	start := time.Now()
	points := make([]SweepPoint, len(inputs))
	dispatchChan := make(chan task)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(dispatchChan)
		for i, in := range inputs {
			select {
			case dispatchChan <- task{index: i, inputs: in}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for t := range dispatchChan {
				res, err := c.SolveIn(t.inputs, sys)
				// 每个 worker 只写自己领到的下标
				points[t.index] = SweepPoint{Index: t.index, Inputs: t.inputs, Result: res, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"points":  len(inputs),
		"workers": workers,
		"cost":    time.Since(start),
	}).Debug("批量计算完成")
	return points, nil
}
