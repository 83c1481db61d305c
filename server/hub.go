package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"capacitor/calculator"
	"capacitor/model"
)

const (
	msgBuffer      = 10
	progressBuffer = 64
)

// Hub 对应一个连接
// 读循环把请求放入 msg，handleRequest 依次处理，handleResponse 是唯一的写者
type Hub struct {
	base calculator.Config
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
	done  chan struct{}
}

func NewHub(conn *websocket.Conn, base calculator.Config) *Hub {
	return &Hub{
		base:  base,
		conn:  conn,
		msg:   make(chan model.Msg, msgBuffer),
		reply: make(chan model.Msg, msgBuffer),
		done:  make(chan struct{}),
	}
}

func (h *Hub) handleResponse() {
	defer close(h.done)
	for reply := range h.reply {
		if err := h.conn.WriteJSON(&reply); err != nil {
			log.WithError(err).WithField("type", reply.Type).Error("发送消息失败")
		}
	}
}

func (h *Hub) handleRequest() {
	defer close(h.reply)
	for msg := range h.msg {
		switch msg.Type {
		case model.MsgSolve:
			h.solve(msg.Content)
		default:
			log.WithField("type", msg.Type).Warn("未知的消息类型")
			h.sendError(fmt.Errorf("no such type: %q", msg.Type))
		}
	}
}

func (h *Hub) solve(content string) {
	cfg, err := h.requestConfig(content)
	if err != nil {
		h.sendError(err)
		return
	}
	solver, err := calculator.NewSolver(cfg)
	if err != nil {
		h.sendError(err)
		return
	}

	calcHub := calculator.NewCalcHub(progressBuffer)
	solver.SetCalcHub(calcHub)
	var (
		res  *calculator.Result
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		defer calcHub.Close()
		res, err = solver.Run()
	}()
	for p := range calcHub.Progress() {
		if !finite(p.Delta) {
			continue
		}
		h.send(model.MsgProgress, model.ProgressData{Sweep: p.Sweep, Delta: p.Delta})
	}
	<-done

	switch {
	case err == nil:
	case errors.Is(err, calculator.ErrDidNotConverge) && res != nil && finiteField(res):
		// 达到迭代上限，结果仍然有效
	default:
		h.sendError(err)
		return
	}
	h.send(model.MsgResult, model.SolveResponse{
		Rows:      res.Field.Rows,
		Cols:      res.Field.Cols,
		Method:    res.Policy.String(),
		Sweeps:    res.Sweeps,
		Delta:     res.Delta,
		Converged: res.Converged,
		Field:     res.Field.ToRows(),
	})
}

// requestConfig 在服务端配置上覆盖请求中给出的字段
func (h *Hub) requestConfig(content string) (calculator.Config, error) {
	cfg := h.base
	req := model.SolveRequest{
		Factor:    cfg.Factor,
		V1:        cfg.V1,
		V2:        cfg.V2,
		Boundary:  cfg.Boundary,
		Method:    cfg.Method.String(),
		Omega:     cfg.Omega,
		Tolerance: cfg.Tolerance,
		MaxSweeps: cfg.MaxSweeps,
	}
	if content != "" {
		if err := json.Unmarshal([]byte(content), &req); err != nil {
			return cfg, fmt.Errorf("bad solve request: %w", err)
		}
	}
	method, err := calculator.ParseMethod(req.Method)
	if err != nil {
		return cfg, err
	}
	cfg.Factor = req.Factor
	cfg.V1 = req.V1
	cfg.V2 = req.V2
	cfg.Boundary = req.Boundary
	cfg.Method = method
	cfg.Omega = req.Omega
	cfg.Tolerance = req.Tolerance
	cfg.MaxSweeps = req.MaxSweeps
	return cfg, nil
}

func (h *Hub) send(typ string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("type", typ).Error("序列化失败")
		h.sendError(err)
		return
	}
	h.reply <- model.Msg{Type: typ, Content: string(data)}
}

func (h *Hub) sendError(err error) {
	h.reply <- model.Msg{Type: model.MsgError, Content: err.Error()}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// JSON 不能表示 NaN 和 Inf
func finiteField(res *calculator.Result) bool {
	if !finite(res.Delta) {
		return false
	}
	for _, v := range res.Field.Data {
		if !finite(v) {
			return false
		}
	}
	return true
}
