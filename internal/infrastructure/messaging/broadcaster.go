// Package messaging provides the concrete implementation of the editor broadcaster.
package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
)

// Event is one change notification pushed to every client watching a site.
type Event struct {
	Type    string    `json:"type"`
	SiteID  string    `json:"siteId"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// EditorBroadcaster manages site-scoped websocket clients.
type EditorBroadcaster struct {
	siteClients map[string]map[*Client]bool // siteId -> clients
	register    chan *Client
	unregister  chan *Client
	done        chan struct{}
	logger      *logging.ChanneledLogger
	mu          sync.RWMutex
}

var _ Broadcaster = (*EditorBroadcaster)(nil)

// NewEditorBroadcaster creates a new broadcaster instance. Run must be
// started before clients register.
func NewEditorBroadcaster(logger *logging.ChanneledLogger) *EditorBroadcaster {
	return &EditorBroadcaster{
		siteClients: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *EditorBroadcaster) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			if _, ok := b.siteClients[client.SiteID]; !ok {
				b.siteClients[client.SiteID] = make(map[*Client]bool)
			}
			b.siteClients[client.SiteID][client] = true
			b.mu.Unlock()
			b.logger.Messaging().Debug("Editor client registered", "siteId", client.SiteID, "clientId", client.ID)

		case client := <-b.unregister:
			b.remove(client)
			b.logger.Messaging().Debug("Editor client unregistered", "siteId", client.SiteID, "clientId", client.ID)

		case <-ctx.Done():
			b.mu.Lock()
			for siteID, clients := range b.siteClients {
				for client := range clients {
					client.close()
				}
				delete(b.siteClients, siteID)
			}
			b.mu.Unlock()
			b.logger.Messaging().Info("Editor broadcaster stopped")
			return
		}
	}
}

// Register queues a client for registration.
func (b *EditorBroadcaster) Register(client *Client) {
	select {
	case b.register <- client:
	case <-b.done:
		client.close()
	}
}

// Unregister queues a client for unregistration.
func (b *EditorBroadcaster) Unregister(client *Client) {
	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

func (b *EditorBroadcaster) remove(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if clients, ok := b.siteClients[client.SiteID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.close()
			if len(clients) == 0 {
				delete(b.siteClients, client.SiteID)
			}
		}
	}
}

// Broadcast sends an event to every client of a site. Clients whose buffer
// is full miss the event.
func (b *EditorBroadcaster) Broadcast(siteID string, event Event) {
	event.SiteID = siteID
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	message, err := json.Marshal(event)
	if err != nil {
		b.logger.Messaging().Error("Failed to marshal editor event", "error", err.Error(), "siteId", siteID, "type", event.Type)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.siteClients[siteID] {
		select {
		case client.Send <- message:
		default:
			b.logger.Messaging().Warn("Editor client buffer full, event dropped", "siteId", siteID, "clientId", client.ID)
		}
	}
}

// ClientCount returns the number of clients watching a site.
func (b *EditorBroadcaster) ClientCount(siteID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.siteClients[siteID])
}
