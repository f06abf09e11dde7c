package game

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// emitter resolves an address (one connection, the admin, everyone) to
// deliveries on client outboxes. It never originates messages itself. A full
// outbox means the consumer stopped draining; the message is dropped rather
// than blocking the coordinator.
type emitter struct {
	reg *registry
	log zerolog.Logger
}

func (e *emitter) encode(event string, data any) ([]byte, bool) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			e.log.Error().Err(err).Str("event", event).Msg("marshal outbound payload")
			return nil, false
		}
		env.Data = raw
	}

	frame, err := json.Marshal(env)
	if err != nil {
		e.log.Error().Err(err).Str("event", event).Msg("marshal outbound envelope")
		return nil, false
	}
	return frame, true
}

func (e *emitter) push(c *client, frame []byte, event string) {
	select {
	case c.outbox <- frame:
	default:
		e.log.Warn().Str("conn", c.id).Str("event", event).Msg("outbox full, message dropped")
	}
}

// toConn delivers to exactly one connection.
func (e *emitter) toConn(c *client, event string, data any) {
	frame, ok := e.encode(event, data)
	if !ok {
		return
	}
	e.push(c, frame, event)
}

// toID delivers to the connection with the given id, reporting whether the
// connection exists.
func (e *emitter) toID(connID string, event string, data any) bool {
	c := e.reg.get(connID)
	if c == nil {
		return false
	}
	e.toConn(c, event, data)
	return true
}

// toAdmin delivers to the registered admin. With no admin registered the
// message is simply not delivered, never retried.
func (e *emitter) toAdmin(event string, data any) {
	admin := e.reg.admin()
	if admin == nil {
		e.log.Debug().Str("event", event).Msg("no admin registered, message dropped")
		return
	}
	e.toConn(admin, event, data)
}

// broadcast delivers to every non-admin connection.
func (e *emitter) broadcast(event string, data any) {
	e.broadcastExcept(nil, event, data)
}

// broadcastExcept delivers to every non-admin connection except the sender.
func (e *emitter) broadcastExcept(sender *client, event string, data any) {
	frame, ok := e.encode(event, data)
	if !ok {
		return
	}
	for _, c := range e.reg.clients {
		if c == sender || e.reg.isAdmin(c) {
			continue
		}
		e.push(c, frame, event)
	}
}
