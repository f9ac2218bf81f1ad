package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/mlegrand/portfolio-backend/internal/middleware"
	"github.com/mlegrand/portfolio-backend/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// l'authentification est portée par le jeton, pas par l'origine
		return true
	},
}

// EventsController ouvre le flux d'événements temps réel du tableau de bord.
type EventsController struct {
	hub *websocket.Hub
}

func NewEventsController(hub *websocket.Hub) *EventsController {
	return &EventsController{
		hub: hub,
	}
}

// Connect passe la connexion en websocket et rattache la session au hub.
// Le jeton arrive en paramètre de requête, les navigateurs ne permettant
// pas de header Authorization sur un upgrade websocket.
// GET /api/admin/events?token=...
func (ctrl *EventsController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Connexion requise"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
