package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"
	"rankine/calculator"
	"rankine/config"
	"rankine/model"
	"rankine/server"
	"rankine/steam"
)

var (
	configPath = flag.String("config", config.DefaultPath, "配置文件路径")

	// 单次计算，不启动服务
	once        = flag.Bool("once", false, "计算一次并打印结果")
	pHigh       = flag.Float64("phigh", 8000, "锅炉压力")
	pLow        = flag.Float64("plow", 8, "冷凝器压力")
	quality     = flag.Float64("x", 1, "透平入口干度")
	temperature = flag.Float64("t", 0, "透平入口温度, 给出时按温度计算并忽略 -x")
	efficiency  = flag.Float64("eta", 1, "透平等熵效率")
	unitSystem  = flag.String("units", "", "单位制 SI 或 English, 默认取配置文件")
)

func main() {
	flag.Parse()
	cfg := config.Load(*configPath)
	log.SetLevel(cfg.LogLevel())

	table, err := steam.Default()
	if err != nil {
		log.WithError(err).Fatal("物性表加载失败")
	}

	if *once {
		if err := solveOnce(cfg, table); err != nil {
			log.WithError(err).Fatal("计算失败")
		}
		return
	}

	pub, err := server.NewPublisher(cfg.MQTT)
	if err != nil {
		log.WithError(err).Warn("MQTT 不可用，计算结果不发布")
		pub = server.NopPublisher{}
	}

	if err := serve(server.NewServer(cfg, table, pub), pub); err != nil {
		log.WithError(err).Fatal("ListenAndServe")
	}
}

// 服务退出时先断开发布端再返回
func serve(s *server.Server, pub server.Publisher) error {
	defer pub.Close()
	return s.Serve()
}

// 命令行给出 -t 时按温度计算, 否则按干度
func cliInputs() model.CycleInputs {
	in := model.CycleInputs{
		PHigh:             *pHigh,
		PLow:              *pLow,
		Inlet:             model.Quality(*quality),
		TurbineEfficiency: *efficiency,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			in.Inlet = model.Temperature(*temperature)
		}
	})
	return in
}

func solveOnce(cfg *config.Config, table *steam.Table) error {
	sys := cfg.Units
	if *unitSystem != "" {
		sys = model.UnitSystem(*unitSystem)
		if !sys.Valid() {
			return fmt.Errorf("unknown unit system %q", *unitSystem)
		}
	}
	res, err := calculator.NewSolver(table).SolveIn(cliInputs(), sys)
	if err != nil {
		return err
	}
	fmt.Print(calculator.NewReport(res, sys))
	return nil
}
