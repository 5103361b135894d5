package handlers

import (
	"sync"

	"github.com/rs/zerolog"

	"numbertrail/server/messages"
)

// ClientManager tracks connected clients by session ID
type ClientManager struct {
	clients map[string]*ClientHandler
	log     zerolog.Logger
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager
func NewClientManager(log zerolog.Logger) *ClientManager {
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
		log:     log,
	}
}

// AddClient registers a client under its session ID
func (cm *ClientManager) AddClient(sessionID string, handler *ClientHandler) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[sessionID] = handler
}

// RemoveClient removes a client from the manager
func (cm *ClientManager) RemoveClient(sessionID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, sessionID)
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// CloseAll tells every client the server is going away and closes its connection
func (cm *ClientManager) CloseAll(reason string) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	notice := messages.NewError(messages.ErrCodeShutdown, reason)
	for id, client := range cm.clients {
		if err := client.conn.SendMessage(notice); err != nil {
			cm.log.Debug().Err(err).Str("session", id).Msg("shutdown notice not delivered")
		}
		client.conn.Close()
	}
}
