package realtime

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	engineiotypes "github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// Notifier is the capability handed to services that need to push events.
// Delivery is best effort: implementations log transport failures and never
// surface them to the caller.
type Notifier interface {
	EmitToRoom(room string, event string, payload any)
	Broadcast(event string, payload any)
}

// ReviewerRoom names the private room of a committee member.
func ReviewerRoom(reviewerID uint) string {
	return fmt.Sprintf("reviewer_%d", reviewerID)
}

// UserRoom names the private room of an author.
func UserRoom(userID uint) string {
	return fmt.Sprintf("user_%d", userID)
}

// SocketNotifier implements Notifier on top of a socket.io server.
type SocketNotifier struct {
	server *socket.Server
}

func NewSocketNotifier(server *socket.Server) *SocketNotifier {
	return &SocketNotifier{server: server}
}

func (n *SocketNotifier) EmitToRoom(room string, event string, payload any) {
	if err := n.server.To(socket.Room(room)).Emit(event, payload); err != nil {
		log.Printf("realtime: emit to room %s failed: %v", room, err)
	}
}

func (n *SocketNotifier) Broadcast(event string, payload any) {
	if err := n.server.Emit(event, payload); err != nil {
		log.Printf("realtime: broadcast failed: %v", err)
	}
}

// SetupSocketServer mounts a socket.io endpoint on the gin router. Clients
// join their rooms with a "join" event carrying the room name; the frontend
// sends reviewer_{id} or user_{id} after login. Admin dashboards stay out of
// any room and receive global broadcasts only.
func SetupSocketServer(r *gin.Engine) *socket.Server {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	c.SetPingInterval(25 * time.Second)
	c.SetPingTimeout(20 * time.Second)
	c.SetMaxHttpBufferSize(1_000_000)
	c.SetConnectTimeout(45 * time.Second)
	c.SetCors(&engineiotypes.Cors{
		Origin:      "*",
		Credentials: true,
	})

	wss := socket.NewServer(nil, nil)
	wss.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		log.Printf("realtime: client %s connected", string(client.Id()))

		client.On("join", func(args ...any) {
			if len(args) == 0 {
				return
			}
			room, ok := args[0].(string)
			if !ok || room == "" {
				return
			}
			client.Join(socket.Room(room))
			log.Printf("realtime: client %s joined %s", string(client.Id()), room)
		})

		client.On("leave", func(args ...any) {
			if len(args) == 0 {
				return
			}
			if room, ok := args[0].(string); ok && room != "" {
				client.Leave(socket.Room(room))
			}
		})
	})

	r.GET("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
	r.POST("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
	return wss
}
