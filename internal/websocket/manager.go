package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	MediaUpdated NotificationType = "media_updated"
)

// Action names the change behind a media_updated notification.
type Action string

const (
	ActionUpload       Action = "upload"
	ActionDeleteImage  Action = "delete_image"
	ActionCreateFolder Action = "create_folder"
	ActionRenameFolder Action = "rename_folder"
	ActionDeleteFolder Action = "delete_folder"
	ActionMoveImages   Action = "move_images"
)

const writeWait = 10 * time.Second

// Notification represents a WebSocket notification
type Notification struct {
	Type       NotificationType       `json:"type"`
	UserID     string                 `json:"user_id"`
	BusinessID string                 `json:"business_id"`
	Action     Action                 `json:"action"`
	Data       map[string]interface{} `json:"data,omitempty"`
	SentAt     time.Time              `json:"sent_at"`
}

// Client represents a WebSocket client connection
type Client struct {
	UserID string
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// NewClient wraps conn for userID.
func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn}
}

func (c *Client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// Manager handles WebSocket connections and notifications
type Manager struct {
	clients    map[string][]*Client
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

// NewManager starts a manager. Stop releases its goroutine.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With(zap.String("component", "websocket")),
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.UserID] = append(m.clients[client.UserID], client)
			m.mu.Unlock()
		case client := <-m.unregister:
			m.mu.Lock()
			if clients, ok := m.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						m.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						break
					}
				}
				if len(m.clients[client.UserID]) == 0 {
					delete(m.clients, client.UserID)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// Stop ends the registration loop.
func (m *Manager) Stop() {
	close(m.done)
}

// RegisterClient registers a new WebSocket client
func (m *Manager) RegisterClient(client *Client) {
	select {
	case m.register <- client:
	case <-m.done:
	}
}

// UnregisterClient unregisters a WebSocket client
func (m *Manager) UnregisterClient(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

// ClientCount returns the number of open connections of userID.
func (m *Manager) ClientCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}

// SendNotification sends a notification to every connection of a user.
func (m *Manager) SendNotification(userID string, notification *Notification) error {
	m.mu.RLock()
	clients := append([]*Client(nil), m.clients[userID]...)
	m.mu.RUnlock()

	if len(clients) == 0 {
		return nil
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	for _, client := range clients {
		if err := client.write(data); err != nil {
			m.logger.Debug("Dropping notification", zap.String("user_id", userID), zap.Error(err))
			continue
		}
	}
	return nil
}

// MediaUpdated tells the owner's connections that a business's media changed.
func (m *Manager) MediaUpdated(userID, businessID string, action Action, data map[string]interface{}) {
	notification := &Notification{
		Type:       MediaUpdated,
		UserID:     userID,
		BusinessID: businessID,
		Action:     action,
		Data:       data,
		SentAt:     time.Now().UTC(),
	}
	if err := m.SendNotification(userID, notification); err != nil {
		m.logger.Warn("Failed to send notification", zap.String("user_id", userID), zap.Error(err))
	}
}
