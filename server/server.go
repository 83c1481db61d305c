package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"capacitor/calculator"
	"capacitor/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	base     calculator.Config // 请求中未给出的参数取这里的值
}

func NewServer(addr string, upgrader websocket.Upgrader, base calculator.Config) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		base:     base,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("websocket 升级失败")
		return
	}
	defer conn.Close()
	log.WithField("remote", conn.RemoteAddr().String()).Info("连接建立")

	hub := NewHub(conn, s.base)
	go hub.handleRequest()
	go hub.handleResponse()
	for {
		// 读取失败说明连接已断开，解析失败只回复错误
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Error("读取消息失败")
			}
			break
		}
		var msg model.Msg
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).Warn("消息格式错误")
			hub.sendError(fmt.Errorf("bad message: %w", err))
			continue
		}
		hub.msg <- msg
	}
	close(hub.msg)
	<-hub.done
	log.WithField("remote", conn.RemoteAddr().String()).Info("连接关闭")
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("服务启动")
	return http.ListenAndServe(s.addr, s.Handler())
}
