package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/snake/broadcast"
	"github.com/wfunc/snake/logger"
	"github.com/wfunc/snake/models"
	"github.com/wfunc/snake/network"
	"github.com/wfunc/snake/room"
	"github.com/wfunc/snake/services"
	"github.com/wfunc/snake/session"
)

var errNoScores = errors.New("score service not configured")

// SessionMetrics is implemented by monitor.Monitor.
type SessionMetrics interface {
	IncOnlineSessions()
	DecOnlineSessions()
}

type Options struct {
	Addr string
	// Room is the template every connection's room is built from.
	Room      room.Config
	Heartbeat time.Duration
	// IdleTimeout closes sessions that sent nothing for this long, 0 disables.
	IdleTimeout time.Duration
}

type GameServer struct {
	opts           Options
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	scores         *services.ScoreService
	broadcaster    broadcast.Broadcaster
	metrics        SessionMetrics
	httpServer     *http.Server
	shutdownOnce   sync.Once
	shutdownChan   chan struct{}
}

// NewGameServer 每个 websocket 连接对应一个独立房间
func NewGameServer(opts Options, rooms *room.Manager, scores *services.ScoreService, metrics SessionMetrics) *GameServer {
	s := &GameServer{
		opts:           opts,
		roomManager:    rooms,
		sessionManager: session.NewManager(),
		scores:         scores,
		metrics:        metrics,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	b := broadcast.NewRoomBroadcaster(rooms, s.sessionManager)
	rooms.SetBroadcaster(b)
	s.broadcaster = b
	return s
}

func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/scores", s.handleScores)
	return mux
}

// Start blocks until Shutdown.
func (s *GameServer) Start() error {
	s.httpServer = &http.Server{Addr: s.opts.Addr, Handler: s.Handler()}
	if s.opts.IdleTimeout > 0 {
		go s.reapIdle(s.opts.IdleTimeout)
	}
	logger.Log.Infof("Game server listening on %s", s.opts.Addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *GameServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
		if data, mErr := json.Marshal(network.ErrorPayload{Message: "server shutting down"}); mErr == nil {
			s.broadcaster.BroadcastToSessions(s.sessionManager.IDs(), network.MsgTypeError, data)
		}
		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}
		s.roomManager.CloseAll()
	})
	return err
}

func (s *GameServer) reapIdle(timeout time.Duration) {
	ticker := time.NewTicker(timeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-s.shutdownChan:
			return
		case now := <-ticker.C:
			s.sweepIdle(now.Add(-timeout))
		}
	}
}

// sweepIdle 关闭 cutoff 之后没有活动的会话, 读循环随后移除会话和房间
func (s *GameServer) sweepIdle(cutoff time.Time) int {
	idle := s.sessionManager.IdleSince(cutoff)
	for _, sess := range idle {
		logger.Log.Infof("Closing idle session %s", sess.GetID())
		sess.Close()
	}
	return len(idle)
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession("", wsConn)
	s.sessionManager.Add(sess)
	if s.metrics != nil {
		s.metrics.IncOnlineSessions()
	}
	if s.opts.Heartbeat > 0 {
		wsConn.SetHeartbeat(s.opts.Heartbeat)
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		if s.metrics != nil {
			s.metrics.DecOnlineSessions()
		}
		if roomID := sess.RoomID(); roomID != "" {
			s.roomManager.RemoveRoom(roomID)
		}
		wsConn.Close()
	}()

	// 会话随房间一起创建, 第一份快照和开局消息直接推给它
	rm, err := s.roomManager.CreateRoom(s.opts.Room, sess)
	if err != nil {
		logger.Log.Errorf("Failed to create room for session %s: %v", sess.GetID(), err)
		s.sendError(sess, "failed to create room")
		return
	}

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
		}
		packet, err := wsConn.ReadPacket()
		if err != nil {
			return
		}
		sess.Touch()
		s.handlePacket(sess, rm, packet)
	}
}

func (s *GameServer) handlePacket(sess *session.Session, rm *room.Room, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Send(network.MsgTypeHeartbeat, nil)
	case network.MsgTypeDirection:
		s.handleDirection(sess, rm, packet)
	case network.MsgTypeRestart:
		rm.Restart()
	case network.MsgTypeHighScores:
		s.handleHighScores(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleDirection(sess *session.Session, rm *room.Room, packet *network.Packet) {
	var req network.DirectionRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		logger.Log.Debugf("Session %s sent a bad direction: %v", sess.GetID(), err)
		s.sendError(sess, "bad direction")
		return
	}
	// 被拒绝的输入不回复
	rm.Submit(req.Direction)
}

func (s *GameServer) handleHighScores(sess *session.Session, packet *network.Packet) {
	var req network.HighScoresRequest
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, "bad high score request")
			return
		}
	}
	records, err := s.highScores(req.Limit)
	if err != nil {
		logger.Log.Errorf("Failed to load high scores: %v", err)
		s.sendError(sess, "high scores unavailable")
		return
	}
	s.send(sess, network.MsgTypeHighScores, network.HighScoresResponse{Records: records})
}

// handleScores GET /scores?limit=N
func (s *GameServer) handleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.highScores(limit)
	if err != nil {
		logger.Log.Errorf("Failed to load high scores: %v", err)
		http.Error(w, "high scores unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(network.HighScoresResponse{Records: records})
}

func (s *GameServer) highScores(limit int) ([]models.GameRecord, error) {
	if s.scores == nil {
		return nil, errNoScores
	}
	return s.scores.HighScores(limit)
}

func (s *GameServer) send(sess *session.Session, msgID uint16, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("Failed to encode message %d: %v", msgID, err)
		return
	}
	if err := sess.Send(msgID, data); err != nil {
		logger.Log.Debugf("Send %d to session %s failed: %v", msgID, sess.GetID(), err)
	}
}

func (s *GameServer) sendError(sess *session.Session, msg string) {
	s.send(sess, network.MsgTypeError, network.ErrorPayload{Message: msg})
}
