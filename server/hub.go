package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"rankine/calculator"
	"rankine/model"
	"rankine/plot"
	"rankine/steam"
	"rankine/units"
)

var errNoSuchType = errors.New("no such type")

// Hub 处理一个连接上的请求，按到达顺序逐个计算并回复
type Hub struct {
	s    *Server
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
}

func NewHub(s *Server, conn *websocket.Conn) *Hub {
	return &Hub{
		s:     s,
		conn:  conn,
		msg:   make(chan model.Msg, 10),
		reply: make(chan model.Msg, 10),
	}
}

func (h *Hub) handleResponse() {
	for reply := range h.reply {
		if err := h.conn.WriteJSON(&reply); err != nil {
			log.WithError(err).WithField("type", reply.Type).Warn("发送消息失败")
		}
	}
}

func (h *Hub) handleRequest(ctx context.Context) {
	defer close(h.reply)
	for msg := range h.msg {
		h.reply <- h.dispatch(ctx, msg)
	}
}

func (h *Hub) dispatch(ctx context.Context, msg model.Msg) model.Msg {
	var (
		typ     string
		content interface{}
		err     error
	)
	switch msg.Type {
	case model.MsgSolve:
		typ = model.MsgResult
		content, err = h.solve(msg.Content)
	case model.MsgSweep:
		typ = model.MsgSweep
		content, err = h.sweep(ctx, msg.Content)
	case model.MsgUnits:
		typ = model.MsgUnits
		content, err = h.units(msg.Content)
	default:
		log.WithField("type", msg.Type).Warn("no such type")
		err = errNoSuchType
	}
	if err != nil {
		return errorMsg(err)
	}
	data, err := json.Marshal(content)
	if err != nil {
		return errorMsg(err)
	}
	return model.Msg{Type: typ, Content: string(data)}
}

type SolveReply struct {
	Report calculator.Report `json:"report"`
	Curve  plot.Curve        `json:"curve"`
}

func (h *Hub) solve(content string) (*SolveReply, error) {
	var req model.SolveRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return nil, fmt.Errorf("bad solve request: %w", err)
	}
	sys, err := h.unitSystem(req.Units)
	if err != nil {
		return nil, err
	}
	res, err := h.s.calc.SolveIn(req.Inputs, sys)
	if err != nil {
		return nil, err
	}
	rep := calculator.NewReport(res, sys)

	if req.Plot.X == "" {
		req.Plot.X = string(plot.Entropy)
	}
	if req.Plot.Y == "" {
		req.Plot.Y = string(plot.Temperature)
	}
	curve, err := h.s.builder.BuildRequest(res, req.Plot, sys)
	if err != nil {
		return nil, err
	}
	// 只发布完整回复给客户端的结果
	if err := h.s.pub.Publish(rep); err != nil {
		log.WithError(err).Warn("发布计算结果失败")
	}
	return &SolveReply{Report: rep, Curve: curve}, nil
}

type SweepItem struct {
	Index  int                `json:"index"`
	Report *calculator.Report `json:"report,omitempty"`
	Error  *ErrorReply        `json:"error,omitempty"`
}

func (h *Hub) sweep(ctx context.Context, content string) ([]SweepItem, error) {
	var req model.SweepRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return nil, fmt.Errorf("bad sweep request: %w", err)
	}
	sys, err := h.unitSystem(req.Units)
	if err != nil {
		return nil, err
	}
	points, err := calculator.Sweep(ctx, h.s.calc, req.Inputs, sys, h.s.workers)
	if err != nil {
		return nil, err
	}
	items := make([]SweepItem, len(points))
	for i, pt := range points {
		items[i].Index = pt.Index
		if pt.Err != nil {
			e := newErrorReply(pt.Err)
			items[i].Error = &e
			continue
		}
		rep := calculator.NewReport(pt.Result, sys)
		items[i].Report = &rep
	}
	return items, nil
}

type UnitsReply struct {
	System model.UnitSystem  `json:"system"`
	Labels map[string]string `json:"labels"`
}

// content 为单位制名称，为空时使用默认单位制
func (h *Hub) units(content string) (*UnitsReply, error) {
	sys, err := h.unitSystem(model.UnitSystem(content))
	if err != nil {
		return nil, err
	}
	return &UnitsReply{System: sys, Labels: units.Labels(sys)}, nil
}

func (h *Hub) unitSystem(u model.UnitSystem) (model.UnitSystem, error) {
	if u == "" {
		return h.s.units, nil
	}
	if !u.Valid() {
		return "", fmt.Errorf("unknown unit system %q", u)
	}
	return u, nil
}

type ErrorReply struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	State   int    `json:"state,omitempty"`
}

func newErrorReply(err error) ErrorReply {
	rep := ErrorReply{Kind: "request", Message: err.Error()}
	var (
		inv *calculator.InvalidInputError
		se  *calculator.SolveError
		oor *steam.OutOfRangeError
		pde *plot.PlotDomainError
	)
	switch {
	case errors.As(err, &inv):
		rep.Kind = "invalid_input"
		rep.Field = inv.Field
	case errors.As(err, &se):
		rep.Kind = "solve"
		rep.State = se.State
	case errors.As(err, &oor):
		rep.Kind = "out_of_range"
	case errors.As(err, &pde):
		rep.Kind = "plot_domain"
	}
	return rep
}

func errorMsg(err error) model.Msg {
	data, _ := json.Marshal(newErrorReply(err))
	return model.Msg{Type: model.MsgError, Content: string(data)}
}
