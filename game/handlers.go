package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type WSHandler struct {
	coord    *Coordinator
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(coord *Coordinator, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		coord: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is already enforced by the router's allow-list middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Handle upgrades the request and hands the connection to the coordinator.
// Both the game board and the control panel connect here; a connection only
// becomes "the admin" by announcing postAdminSocketId afterwards.
func (h *WSHandler) Handle(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	c := newClient(uuid.NewString(), NewWebsocketConnection(conn), h.coord)
	h.coord.Join(c)
	go c.readPump()
	go c.writePump()
}
