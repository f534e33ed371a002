// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/snake/logger"
	"github.com/wfunc/snake/room"
	"github.com/wfunc/snake/session"
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	BroadcastToSessions(sessionIDs []string, msgID uint16, data []byte) error
}

// 基于房间的广播器
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

// BroadcastToRoom 发送失败的会话只记录日志, 由读循环负责清理
func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomID)
	if !exists {
		return room.ErrRoomNotFound
	}

	for _, s := range r.GetSessions() {
		if err := s.Send(msgID, data); err != nil {
			logger.Log.Debugf("Send %d to session %s failed: %v", msgID, s.GetID(), err)
		}
	}
	return nil
}

func (b *RoomBroadcaster) BroadcastToSessions(sessionIDs []string, msgID uint16, data []byte) error {
	for _, id := range sessionIDs {
		s, ok := b.sessionManager.Get(id)
		if !ok {
			continue
		}
		if err := s.Send(msgID, data); err != nil {
			logger.Log.Debugf("Send %d to session %s failed: %v", msgID, id, err)
		}
	}
	return nil
}
