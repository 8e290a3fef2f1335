// Package messaging defines interfaces for real-time communication.
package messaging

// Broadcaster defines the interface for managing editor client connections and broadcasting change events.
type Broadcaster interface {
	Register(client *Client)
	Unregister(client *Client)
	Broadcast(siteID string, event Event)
	ClientCount(siteID string) int
}
