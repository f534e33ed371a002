package main

import (
	"bufio"
	"encoding/json"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"

	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/logger"
	"github.com/wfunc/snake/network"
)

const clearScreen = "\033[H\033[2J"

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, payload interface{}) error {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return err
		}
	}
	packet, err := network.EncodePacket(msgID, data)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func handle(p *network.Packet) {
	switch p.MsgID {
	case network.MsgTypeSnapshot:
		var snap game.Snapshot
		if err := json.Unmarshal(p.Data, &snap); err != nil {
			logger.Log.Warnf("Bad snapshot: %v", err)
			return
		}
		os.Stdout.WriteString(clearScreen + render(snap))
	case network.MsgTypeGameEnd:
		var end network.GameEndPayload
		if err := json.Unmarshal(p.Data, &end); err == nil {
			os.Stdout.WriteString(renderGameEnd(end))
		}
	case network.MsgTypeHighScores:
		var resp network.HighScoresResponse
		if err := json.Unmarshal(p.Data, &resp); err == nil {
			os.Stdout.WriteString(renderHighScores(resp))
		}
	case network.MsgTypeError:
		var e network.ErrorPayload
		if err := json.Unmarshal(p.Data, &e); err == nil {
			logger.Log.Warnf("Server error: %s", e.Message)
		}
	}
}

func main() {
	addr := pflag.String("addr", "localhost:8080", "game server address")
	heartbeat := pflag.Duration("heartbeat", 10*time.Second, "heartbeat interval, 0 to disable")
	pflag.Parse()

	logger.Init(true)
	defer logger.Sync()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	logger.Log.Infof("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				logger.Log.Infof("Read error: %v", err)
				return
			}
			p, err := network.DecodePacket(message)
			if err != nil {
				logger.Log.Warnf("Received invalid packet of size %d", len(message))
				continue
			}
			handle(p)
		}
	}()

	// stdin 在单独的 goroutine 里读, 主循环才能响应中断
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	var beat <-chan time.Time
	if *heartbeat > 0 {
		ticker := time.NewTicker(*heartbeat)
		defer ticker.Stop()
		beat = ticker.C
	}

	logger.Log.Info("Client started. w/a/s/d to steer, r to restart, h for high scores, q to quit.")

	for {
		select {
		case <-done:
			return
		case <-beat:
			if err := send(c, network.MsgTypeHeartbeat, nil); err != nil {
				logger.Log.Infof("Write error: %v", err)
				return
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			cmd, valid := parseCommand(line)
			if !valid {
				continue
			}
			if cmd.quit {
				closeConn(c, done)
				return
			}
			var payload interface{}
			if cmd.msgID == network.MsgTypeDirection {
				payload = network.DirectionRequest{Direction: cmd.direction}
			}
			if err := send(c, cmd.msgID, payload); err != nil {
				logger.Log.Infof("Write error: %v", err)
				return
			}
		case <-interrupt:
			logger.Log.Info("Interrupt received, closing connection.")
			closeConn(c, done)
			return
		}
	}
}

func closeConn(c *websocket.Conn, done <-chan struct{}) {
	err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		logger.Log.Infof("Write close error: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
	}
}
