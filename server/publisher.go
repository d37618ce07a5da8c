package server

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"rankine/calculator"
	"rankine/config"
)

const connectTimeout = 5 * time.Second

// 计算结果发布
type Publisher interface {
	Publish(rep calculator.Report) error
	Close()
}

// 不发布
type NopPublisher struct{}

func (NopPublisher) Publish(calculator.Report) error { return nil }

func (NopPublisher) Close() {}

// 未配置 broker 时返回 NopPublisher
func NewPublisher(cfg config.MQTTConfig) (Publisher, error) {
	if cfg.Broker == "" {
		return NopPublisher{}, nil
	}
	return NewMQTTPublisher(cfg)
}

// 把每次成功的计算结果以 JSON 发布到 MQTT topic
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

func NewMQTTPublisher(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT 连接断开")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.Broker, err)
	}
	log.WithFields(log.Fields{
		"broker": cfg.Broker,
		"topic":  cfg.Topic,
	}).Info("MQTT 已连接")
	return &MQTTPublisher{client: client, topic: cfg.Topic, qos: cfg.QoS}, nil
}

func (p *MQTTPublisher) Publish(rep calculator.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, p.qos, false, payload)
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", p.topic)
	}
	return token.Error()
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
