package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/mlegrand/portfolio-backend/pkg/logger"
)

// Event message temps réel poussé au tableau de bord
// (nouvelle commande, changement de statut, message de contact).
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client session websocket d'un administrateur connecté au tableau de bord.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub gère les sessions websocket du tableau de bord et diffuse les
// événements à toutes les sessions. Implémente service.EventPublisher.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run boucle principale du hub, à lancer dans sa propre goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Info("Dashboard websocket client registered", map[string]interface{}{
				"user_id":       client.UserID,
				"session_count": h.SessionCount(),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Dashboard websocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// buffer plein, la session sera fermée par son ReadPump
					logger.Warn("Dashboard client send buffer full, dropping event", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish diffuse un événement à toutes les sessions du tableau de bord.
// Sans session connectée l'événement est simplement perdu, les données
// restent disponibles via l'API REST.
func (h *Hub) Publish(eventType string, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal dashboard event", err, map[string]interface{}{
			"event_type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Dashboard broadcast channel full, event dropped", map[string]interface{}{
			"event_type": eventType,
		})
	}
}

// Register enregistre une session.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister retire une session.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SessionCount nombre de sessions actives.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
