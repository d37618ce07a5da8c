package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"rankine/calculator"
	"rankine/config"
	"rankine/model"
	"rankine/plot"
	"rankine/steam"
)

type Server struct {
	addr     string
	path     string
	upgrader websocket.Upgrader

	calc    calculator.Calculator
	builder *plot.Builder
	pub     Publisher
	units   model.UnitSystem
	workers int
}

func NewServer(cfg *config.Config, table *steam.Table, pub Publisher) *Server {
	return &Server{
		addr: cfg.Server.Addr,
		path: cfg.Server.Path,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		calc:    calculator.NewSolver(table),
		builder: plot.NewBuilder(table, cfg.Plot.DomePoints),
		pub:     pub,
		units:   cfg.Units,
		workers: cfg.Sweep.Workers,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket 升级失败")
		return
	}
	defer conn.Close()
	log.WithField("remote", conn.RemoteAddr().String()).Info("客户端已连接")

	ctx, cancel := context.WithCancel(r.Context())
	hub := NewHub(s, conn)
	done := make(chan struct{})
	go hub.handleRequest(ctx)
	go func() {
		hub.handleResponse()
		close(done)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("读取消息失败")
			}
			break
		}
		var msg model.Msg
		if err := json.Unmarshal(data, &msg); err != nil {
			hub.reply <- errorMsg(err)
			continue
		}
		hub.msg <- msg
	}
	cancel()
	close(hub.msg)
	<-done
	log.WithField("remote", conn.RemoteAddr().String()).Info("客户端已断开")
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.serveWs)
	return mux
}

func (s *Server) Serve() error {
	log.WithFields(log.Fields{
		"addr":  s.addr,
		"path":  s.path,
		"units": s.units,
	}).Info("服务启动")
	return http.ListenAndServe(s.addr, s.Handler())
}
