package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/mapquiz/internal/engine"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// Client is one WebSocket connection.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger
}

func newClient(id string, conn *websocket.Conn, log *slog.Logger) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		log:  log.With("conn", id),
	}
}

// readPump decodes client messages into engine commands until the
// connection fails or closes.
func (c *Client) readPump(s *session) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read", "error", err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("Invalid message format")
			continue
		}

		cmd, ok := c.command(msg)
		if !ok {
			continue
		}
		if !s.post(cmd) {
			return
		}
	}
}

// command turns an inbound message into an engine command. Pings are
// answered directly.
func (c *Client) command(msg inboundMessage) (engine.Command, bool) {
	switch msg.Type {
	case MessageTypeAnswer:
		var p AnswerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RegionID == "" {
			c.sendError("answer needs a region_id")
			return nil, false
		}
		return engine.SubmitAnswer{RegionID: p.RegionID}, true
	case MessageTypeNewGame:
		return engine.RequestNewGame{}, true
	case MessageTypePing:
		c.sendMessage(MessageTypePong, nil)
		return nil, false
	}
	c.sendError("Unknown message type: " + string(msg.Type))
	return nil, false
}

// writePump writes queued messages and keeps the connection alive with
// pings. It exits when send is closed or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn("websocket write", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendMessage queues one message. A full queue drops the message.
func (c *Client) sendMessage(msgType MessageType, payload any) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		c.log.Error("marshal message", "type", msgType, "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("send queue full, dropping message", "type", msgType)
	}
}

func (c *Client) sendError(message string) {
	c.sendMessage(MessageTypeError, ErrorPayload{Message: message})
}
