package ws

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var ErrNotConnected = errors.New("subscriber not connected")

type subscriber struct {
	mu   sync.Mutex // gorilla connections allow one concurrent writer
	conn *websocket.Conn
}

func (s *subscriber) write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Manager keeps track of standings subscribers.
type Manager struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber // subscriberID -> conn
}

func NewManager() *Manager {
	return &Manager{subscribers: make(map[string]*subscriber)}
}

// Register adds conn and returns the ID it is known by.
func (m *Manager) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[id] = &subscriber{conn: conn}
	return id
}

// Unregister closes and removes a subscriber.
func (m *Manager) Unregister(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subscribers[id]; ok {
		_ = sub.conn.Close()
		delete(m.subscribers, id)
	}
}

// Send writes a text message to one subscriber.
func (m *Manager) Send(id string, payload []byte) error {
	m.mu.RLock()
	sub, ok := m.subscribers[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotConnected
	}
	return sub.write(payload)
}

// Broadcast writes payload to every subscriber concurrently and drops the
// ones that fail, so one stalled client costs at most writeWait overall.
// It returns how many subscribers received the message.
func (m *Manager) Broadcast(payload []byte) int {
	m.mu.RLock()
	targets := make(map[string]*subscriber, len(m.subscribers))
	for id, sub := range m.subscribers {
		targets[id] = sub
	}
	m.mu.RUnlock()

	var (
		wg        sync.WaitGroup
		delivered atomic.Int64
	)
	for id, sub := range targets {
		wg.Add(1)
		go func(id string, sub *subscriber) {
			defer wg.Done()
			if err := sub.write(payload); err != nil {
				m.Unregister(id)
				return
			}
			delivered.Add(1)
		}(id, sub)
	}
	wg.Wait()
	return int(delivered.Load())
}

// Count returns the number of connected subscribers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// List returns a copy of current subscriber IDs.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.subscribers))
	for id := range m.subscribers {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll disconnects every subscriber.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sub := range m.subscribers {
		_ = sub.conn.Close()
		delete(m.subscribers, id)
	}
}
