package network

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// ErrSendBufferFull is returned when a client stops draining its messages
var ErrSendBufferFull = errors.New("send buffer full")

// ErrConnectionClosed is returned by SendMessage after Close
var ErrConnectionClosed = errors.New("connection closed")

// Connection wraps the WebSocket connection with an outgoing queue
type Connection struct {
	ws   *websocket.Conn
	send chan []byte
	log  zerolog.Logger

	closeOnce sync.Once
	mutex     sync.RWMutex
	closed    bool
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn, log zerolog.Logger) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		log:  log,
	}
}

// MessageHandler handles one inbound frame
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}

// ReadPump reads frames until the peer goes away, handing each to h.
// Frames are handled one at a time, in order.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("error reading message")
			}
			return
		}
		h.HandleMessage(c, message)
	}
}

// WritePump drains the send queue to the socket and keeps the peer alive with pings
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.ws.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues msg as JSON. A client whose queue is full is disconnected.
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		go c.Close()
		return ErrSendBufferFull
	}
}

// Close stops the write pump, which closes the socket after a close frame
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.mutex.Lock()
		c.closed = true
		close(c.send)
		c.mutex.Unlock()
	})
}

// RemoteAddr returns the peer address
func (c *Connection) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}
