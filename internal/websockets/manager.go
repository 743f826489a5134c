package websockets

import (
	"sync"

	"peoplefinder/config"
	"peoplefinder/internal/database"
	"peoplefinder/internal/events"
	"peoplefinder/internal/logger"

	"github.com/gofiber/websocket/v2"
)

// Manager fans the event bus out to connected dashboard clients so an open
// dashboard sees logins, logouts, and completed searches as they happen.
type Manager struct {
	db       database.DB
	eventBus *events.EventBus
	config   config.Config
	log      logger.Logger

	mu          sync.Mutex
	clients     map[*websocket.Conn]struct{}
	unsubscribe []func()
}

func New(db database.DB, eventBus *events.EventBus, config config.Config) (*Manager, error) {
	m := &Manager{
		db:       db,
		eventBus: eventBus,
		config:   config,
		log:      logger.New("websockets"),
		clients:  make(map[*websocket.Conn]struct{}),
	}

	for _, channel := range []string{events.ChannelAuth, events.ChannelSearch} {
		stream, cancel := eventBus.Subscribe(channel)
		m.unsubscribe = append(m.unsubscribe, cancel)
		go m.fanOut(stream)
	}

	return m, nil
}

// HandleWebSocket owns one client connection for its lifetime. The read
// loop exists only to notice the close; clients have nothing to send us.
func (m *Manager) HandleWebSocket(conn *websocket.Conn) {
	m.register(conn)
	defer m.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) Close() {
	for _, cancel := range m.unsubscribe {
		cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.Close()
	}
	m.clients = make(map[*websocket.Conn]struct{})
}

func (m *Manager) fanOut(stream <-chan events.Event) {
	for event := range stream {
		m.broadcast(event)
	}
}

func (m *Manager) broadcast(event events.Event) {
	log := m.log.Function("broadcast")

	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.clients {
		if err := conn.WriteJSON(event); err != nil {
			log.Warn("dropping websocket client", "error", err)
			conn.Close()
			delete(m.clients, conn)
		}
	}
}

func (m *Manager) register(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[conn] = struct{}{}
}

func (m *Manager) remove(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[conn]; ok {
		conn.Close()
		delete(m.clients, conn)
	}
}
