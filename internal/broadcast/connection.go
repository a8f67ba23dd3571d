package broadcast

import "sync"

// sendQueueSize bounds how many undelivered frames a connection may hold
// before broadcasts start treating it as unwritable.
const sendQueueSize = 16

// Identity is the user a channel claims to be after its auth handshake. The
// claim is taken as-is; it is not validated against the domain store.
type Identity struct {
	UserId   int    `json:"userId"`
	Username string `json:"username"`
}

// Connection is one live push channel. The registry is its sole owner: it is
// created by Register and becomes unreachable after Unregister. Send carries
// fully serialized frames; the transport write pump is the only reader.
type Connection struct {
	Id   string
	Send chan []byte

	done      chan struct{}
	closeOnce sync.Once

	mu       sync.RWMutex
	identity *Identity
}

func newConnection(id string) *Connection {
	return &Connection{
		Id:   id,
		Send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

// BindIdentity overwrites any previously bound identity. A repeated
// handshake on the same channel simply rebinds it.
func (c *Connection) BindIdentity(identity Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.identity = &identity
}

func (c *Connection) Identity() (Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.identity == nil {
		return Identity{}, false
	}

	return *c.identity, true
}

// Close marks the connection terminal. The Send channel is never closed so
// that an in-flight broadcast iterating a stale snapshot can never panic;
// readers select on Done instead.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Connection) Done() <-chan struct{} {
	return c.done
}
