package main

import (
	"errors"
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rankine/calculator"
	"rankine/config"
	"rankine/model"
	"rankine/server"
	"rankine/steam"
)

type closingPublisher struct {
	closed bool
}

func (p *closingPublisher) Publish(calculator.Report) error { return nil }

func (p *closingPublisher) Close() { p.closed = true }

func TestServe_ClosesPublisherOnError(t *testing.T) {
	tb, err := steam.Default()
	require.NoError(t, err)
	cfg := config.Load(filepath.Join(t.TempDir(), "missing.ini"))
	cfg.Server.Addr = ":-1"

	pub := &closingPublisher{}
	err = serve(server.NewServer(cfg, tb, pub), pub)
	assert.Error(t, err)
	assert.True(t, pub.closed)
}

func TestCLIInputs_InletMode(t *testing.T) {
	in := cliInputs()
	assert.Equal(t, model.QualityMode, in.Inlet.Mode)
	assert.Equal(t, 1.0, in.Inlet.Value)

	// 非正温度同样按温度计算，由求解器报错
	require.NoError(t, flag.CommandLine.Set("t", "-10"))
	t.Cleanup(func() { *temperature = 0 })
	in = cliInputs()
	assert.Equal(t, model.TemperatureMode, in.Inlet.Mode)
	assert.Equal(t, -10.0, in.Inlet.Value)

	tb, err := steam.Default()
	require.NoError(t, err)
	_, err = calculator.NewSolver(tb).Solve(in)
	var se *calculator.SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, model.TurbineInlet, se.State)
}
