package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"outdoormatch/internal/infrastructure/metrics"
	"outdoormatch/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 64
)

var (
	ErrClientClosed = errors.New("websocket client closed")
	ErrSlowClient   = errors.New("websocket client too slow")
)

// Client is one live connection. Kind names the subscription it serves.
type Client struct {
	ID     string
	UserID string
	Kind   string
	Conn   *websocket.Conn
	Send   chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(userID, kind string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Kind:   kind,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// SendJSON queues v for the writer. A client whose queue is full is
// disconnected rather than allowed to stall the sender.
func (c *Client) SendJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.Send <- payload:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		logger.Warn("Dropping slow websocket client %s (user %s)", c.ID, c.UserID)
		c.Close()
		return ErrSlowClient
	}
}

// Manager tracks all live connections.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	stopped    chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine. When ctx is done every
// client is closed.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.stopped)
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.ID] = client
				m.mutex.Unlock()
				metrics.IncWSActive(client.Kind)
				logger.Debug("Client registered: %s (%s, user %s)", client.ID, client.Kind, client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.ID]; ok {
					delete(m.clients, client.ID)
					metrics.DecWSActive(client.Kind)
				}
				m.mutex.Unlock()
				client.Close()
				logger.Debug("Client unregistered: %s", client.ID)

			case <-ctx.Done():
				m.mutex.Lock()
				for id, client := range m.clients {
					client.Close()
					metrics.DecWSActive(client.Kind)
					delete(m.clients, id)
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

func (m *Manager) register(c *Client) bool {
	select {
	case m.Register <- c:
		return true
	case <-m.stopped:
		return false
	}
}

func (m *Manager) unregister(c *Client) {
	select {
	case m.Unregister <- c:
	case <-m.stopped:
	}
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// Serve registers c and runs its pumps until the connection ends or c is
// closed. onMessage receives every inbound frame.
func (m *Manager) Serve(c *Client, onMessage func([]byte)) {
	if !m.register(c) {
		c.Close()
		c.Conn.Close()
		return
	}

	go c.WritePump()
	c.ReadPump(m, onMessage)
}

// ReadPump reads frames until the connection fails, then unregisters.
func (c *Client) ReadPump(m *Manager, onMessage func([]byte)) {
	defer func() {
		m.unregister(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error for %s: %v", c.ID, err)
			}
			return
		}
		if onMessage != nil {
			onMessage(message)
		}
	}
}

// WritePump sends queued frames and keepalive pings. It closes the
// connection when the client is closed, which also ends ReadPump.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write error for %s: %v", c.ID, err)
				c.Close()
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.flush()
			c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever is still queued, so a final error frame reaches
// the client before the close frame.
func (c *Client) flush() {
	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}
