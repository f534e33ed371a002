// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/snake/network"
)

// Session 一个 websocket 连接, 控制或观看一个房间
type Session struct {
	ID         string
	Conn       network.Connection
	CreatedAt  time.Time
	roomID     string
	lastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		lastActive: now,
	}
}

func (s *Session) Send(msgID uint16, data []byte) error {
	return s.Conn.Send(msgID, data)
}

// Touch 记录客户端活动, 心跳和输入都会调用
func (s *Session) Touch() {
	s.mutex.Lock()
	s.lastActive = time.Now()
	s.mutex.Unlock()
}

func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

func (s *Session) RoomID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID
}

func (s *Session) SetRoomID(id string) {
	s.mutex.Lock()
	s.roomID = id
	s.mutex.Unlock()
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

func (m *Manager) IDs() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// IdleSince 返回在 cutoff 之后没有活动的会话
func (m *Manager) IdleSince(cutoff time.Time) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			result = append(result, s)
		}
	}
	return result
}
