package game

import (
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// NetConn abstracts the websocket so the coordinator and its tests never
// touch *websocket.Conn directly.
type NetConn interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
}

type websocketConnection struct {
	socket *websocket.Conn
}

func NewWebsocketConnection(conn *websocket.Conn) *websocketConnection {
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(time.Minute))
		return nil
	})
	return &websocketConnection{socket: conn}
}

func (wc *websocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *websocketConnection) Close(reason string) {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.socket.Close()
}

// client is one live connection. The coordinator goroutine owns playerID and
// the outbox/pings channels (it is the only closer); the pumps only read the
// socket and drain the channels.
type client struct {
	id       string
	playerID int64 // 0 until signUpForGame binds a player
	sock     NetConn
	limiter  *rate.Limiter
	outbox   chan []byte
	pings    chan struct{}
	coord    *Coordinator
}

func newClient(id string, sock NetConn, coord *Coordinator) *client {
	return &client{
		id:      id,
		sock:    sock,
		limiter: rate.NewLimiter(rate.Limit(inboundEventsPerSecond), inboundEventBurst),
		outbox:  make(chan []byte, outboxSize),
		pings:   make(chan struct{}),
		coord:   coord,
	}
}

const (
	inboundEventsPerSecond = 10
	inboundEventBurst      = 20
	outboxSize             = 256
)

// readPump feeds decoded inbound envelopes to the coordinator until the
// socket errors, then requests its own removal.
func (c *client) readPump() {
	defer c.coord.Leave(c)

	for {
		data, err := c.sock.Read()
		if err != nil {
			return
		}

		if !c.limiter.Allow() {
			continue
		}

		env, err := DecodeEnvelope(data)
		if err != nil {
			continue
		}

		c.coord.Deliver(c, env)
	}
}

// writePump drains the outbox until the coordinator closes it.
func (c *client) writePump() {
loop:
	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				break loop
			}
			if err := c.sock.Write(data); err != nil {
				break loop
			}
		case _, ok := <-c.pings:
			if !ok {
				break loop
			}
			if err := c.sock.Ping(); err != nil {
				break loop
			}
		}
	}
	c.sock.Close("")
}
