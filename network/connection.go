// network/connection.go
package network

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type Connection interface {
	Send(msgID uint16, data []byte) error
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
	ReadPacket() (*Packet, error)
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) Send(msgID uint16, data []byte) error {
	packet, err := EncodePacket(msgID, data)
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, packet)
}

func (c *WSConnection) ReadPacket() (*Packet, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	return DecodePacket(data)
}

// SetHeartbeat 两个心跳周期内没有任何消息则读超时
func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
