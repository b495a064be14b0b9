package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"plugsim/backend/libs/shelly"
)

const (
	readLimit  = 4 * 1024
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// StatusProvider produces a fresh status document per call.
type StatusProvider interface {
	Status() shelly.StatusDoc
}

// Connection pushes status documents to one subscriber.
type Connection struct {
	id           string
	ws           *websocket.Conn
	provider     StatusProvider
	interval     time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
	closeOnce    sync.Once
	done         chan struct{}
}

// NewConnection wraps an upgraded websocket.
func NewConnection(id string, conn *websocket.Conn, provider StatusProvider, interval, writeTimeout time.Duration, logger *zap.Logger) *Connection {
	return &Connection{
		id:           id,
		ws:           conn,
		provider:     provider,
		interval:     interval,
		writeTimeout: writeTimeout,
		logger:       logger,
		done:         make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (c *Connection) ID() string {
	return c.id
}

// Run streams status documents until the peer goes away or ctx is cancelled.
// The first document is sent immediately.
func (c *Connection) Run(ctx context.Context) {
	defer c.Close()
	go c.readPump()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	if err := c.pushStatus(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.pushStatus(); err != nil {
				return
			}
		case <-pings.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed and a closed peer is noticed.
func (c *Connection) readPump() {
	defer c.Close()
	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.logger.Debug("status subscriber read closed", zap.String("conn_id", c.id), zap.Error(err))
			return
		}
	}
}

func (c *Connection) pushStatus() error {
	payload, err := json.Marshal(c.provider.Status())
	if err != nil {
		return err
	}
	if err := c.write(websocket.TextMessage, payload); err != nil {
		c.logger.Debug("status push failed", zap.String("conn_id", c.id), zap.Error(err))
		return err
	}
	return nil
}

func (c *Connection) write(messageType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

// Close releases the socket; safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}
