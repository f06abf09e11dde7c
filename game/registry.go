package game

// registry tracks the live connection set, which connection currently holds
// the admin role, and the player-id to connection-id association. It is not
// safe for concurrent use; only the coordinator goroutine touches it.
type registry struct {
	clients map[string]*client
	players map[int64]string
	adminID string
}

func newRegistry() *registry {
	return &registry{
		clients: make(map[string]*client),
		players: make(map[int64]string),
	}
}

func (r *registry) add(c *client) {
	r.clients[c.id] = c
}

func (r *registry) remove(c *client) {
	delete(r.clients, c.id)
	if c.playerID != 0 {
		delete(r.players, c.playerID)
	}
	if r.adminID == c.id {
		r.adminID = ""
	}
}

func (r *registry) get(id string) *client {
	return r.clients[id]
}

func (r *registry) contains(c *client) bool {
	return r.clients[c.id] == c
}

// setAdmin replaces any previous admin registration. The last connection to
// announce itself wins; an upstream auth layer is expected to gate who can
// reach this point.
func (r *registry) setAdmin(c *client) {
	r.adminID = c.id
}

func (r *registry) admin() *client {
	if r.adminID == "" {
		return nil
	}
	return r.clients[r.adminID]
}

func (r *registry) isAdmin(c *client) bool {
	return r.adminID != "" && r.adminID == c.id
}

func (r *registry) bindPlayer(playerID int64, c *client) {
	if old, ok := r.players[playerID]; ok {
		if oldClient := r.clients[old]; oldClient != nil && oldClient != c {
			oldClient.playerID = 0
		}
	}
	c.playerID = playerID
	r.players[playerID] = c.id
}
