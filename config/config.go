package config

import (
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
	"rankine/model"
)

// 配置文件 conf/config.ini，缺省的键使用默认值

const DefaultPath = "conf/config.ini"

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Units  model.UnitSystem
	Plot   PlotConfig
	Sweep  SweepConfig
	MQTT   MQTTConfig
}

type ServerConfig struct {
	Addr string
	Path string
}

type LogConfig struct {
	Level string
}

type PlotConfig struct {
	DomePoints int
}

type SweepConfig struct {
	Workers int
}

// Broker 为空时不发布计算结果
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// 读取配置文件，文件不存在或格式错误时全部使用默认值
func Load(path string) *Config {
	file, err := ini.Load(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("配置文件读取错误，使用默认配置")
		file = ini.Empty()
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Addr: file.Section("server").Key("addr").MustString(":9000"),
			Path: file.Section("server").Key("path").MustString("/ws"),
		},
		Log: LogConfig{
			Level: file.Section("log").Key("level").MustString("info"),
		},
		Units: model.UnitSystem(file.Section("units").Key("default").In(string(model.SI), []string{string(model.SI), string(model.English)})),
		Plot: PlotConfig{
			DomePoints: file.Section("plot").Key("dome_points").MustInt(40),
		},
		Sweep: SweepConfig{
			Workers: file.Section("sweep").Key("workers").MustInt(0),
		},
		MQTT: MQTTConfig{
			Broker:   file.Section("mqtt").Key("broker").String(),
			ClientID: file.Section("mqtt").Key("client_id").MustString("rankine"),
			Topic:    file.Section("mqtt").Key("topic").MustString("rankine/result"),
			QoS:      byte(file.Section("mqtt").Key("qos").RangeInt(0, 0, 2)),
		},
	}
	return cfg
}

// 日志级别，无法识别时为 Info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
