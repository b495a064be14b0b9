package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Manager tracks live status subscribers.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*Connection
}

// NewManager builds an empty registry.
func NewManager() *Manager {
	return &Manager{connections: make(map[string]*Connection)}
}

// Add registers conn.
func (m *Manager) Add(conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID()] = conn
}

// Remove forgets the connection with id.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, id)
}

// Count returns the number of subscribers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// CloseAll disconnects every subscriber.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	conns := make([]*Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		conns = append(conns, conn)
	}
	m.mu.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// Server upgrades /ws/status requests and streams status documents.
type Server struct {
	manager      *Manager
	provider     StatusProvider
	interval     time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
	upgrader     websocket.Upgrader

	mu   sync.Mutex
	base context.Context
}

// NewServer builds the status stream server.
func NewServer(manager *Manager, provider StatusProvider, interval time.Duration, logger *zap.Logger) *Server {
	if interval <= 0 {
		interval = time.Second
	}
	return &Server{
		manager:      manager,
		provider:     provider,
		interval:     interval,
		writeTimeout: 10 * time.Second,
		logger:       logger,
		base:         context.Background(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run binds stream lifetimes to ctx and disconnects everyone once it is done.
func (s *Server) Run(ctx context.Context) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	<-ctx.Done()
	s.manager.CloseAll()
}

// HandleStatus is the HTTP handler for GET /ws/status. It blocks for the life of the stream.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	ctx := s.base
	s.mu.Unlock()

	connection := NewConnection(uuid.NewString(), conn, s.provider, s.interval, s.writeTimeout, s.logger)
	s.manager.Add(connection)
	s.logger.Info("status subscriber connected",
		zap.String("conn_id", connection.ID()),
		zap.Int("subscribers", s.manager.Count()),
	)

	connection.Run(ctx)

	s.manager.Remove(connection.ID())
	s.logger.Info("status subscriber disconnected",
		zap.String("conn_id", connection.ID()),
		zap.Int("subscribers", s.manager.Count()),
	)
}
