package handlers

import (
	"log"
	"net/http"

	"attendance/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool

var connectedClients = cmap.New[SendSocketFunc]()

// BroadcastAttendanceChanged tells every connected dashboard that today's
// list changed. Registered as a ledger change callback at boot.
func BroadcastAttendanceChanged() {
	message := []byte(`{"type":"attendance-changed"}`)
	for _, id := range connectedClients.Keys() {
		send, ok := connectedClients.Get(id)
		if !ok {
			continue
		}
		if !send(message) {
			connectedClients.Remove(id)
		}
	}
}

func WebSocket(c *gin.Context, user *models.User) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Setup client
	isConnected := true
	id := uuid.NewString()
	send := func(data []byte) bool {
		if !isConnected {
			return false
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	}
	connectedClients.Set(id, send)
	defer connectedClients.Remove(id)
	// Main read cycle; clients only listen, so any read result other than
	// a ping means the connection is done
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			isConnected = false
			return
		}
	}
}
