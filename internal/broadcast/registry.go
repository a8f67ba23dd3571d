package broadcast

import (
	"errors"
	"sync"

	"github.com/cyberzid/feed/internal/ierr"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// Registry tracks every live connection by id. An entry exists exactly while
// its transport has not reported close or error, modulo the brief window of a
// concurrent unregister.
type Registry struct {
	logger *zap.Logger

	mu          sync.RWMutex
	connections map[string]*Connection
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger:      logger,
		connections: make(map[string]*Connection),
	}
}

// Register allocates a connection with a fresh id and no bound identity. The
// entry is visible to broadcasts as soon as Register returns.
func (r *Registry) Register() *Connection {
	connection := newConnection(gonanoid.Must())

	r.mu.Lock()
	r.connections[connection.Id] = connection
	r.mu.Unlock()

	return connection
}

// Bind attaches an identity to a registered connection. Binding an id that
// already left the registry (a race with close) reports UnknownConnection
// and changes nothing.
func (r *Registry) Bind(connectionId string, identity Identity) error {
	r.mu.RLock()
	connection, ok := r.connections[connectionId]
	r.mu.RUnlock()

	if !ok {
		return ierr.New(ierr.ErrorCodeUnknownConnection, errors.New("connection is no longer registered"))
	}

	connection.BindIdentity(identity)

	return nil
}

// Unregister removes the entry and closes the connection's done latch.
// Idempotent: removing an absent id is not an error.
func (r *Registry) Unregister(connectionId string) {
	r.mu.Lock()
	connection, ok := r.connections[connectionId]
	if ok {
		delete(r.connections, connectionId)
	}
	r.mu.Unlock()

	if ok {
		connection.Close()
	}
}

// Snapshot copies the live set under a brief read lock so callers can iterate
// without holding up concurrent registers and unregisters.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connections := make([]*Connection, 0, len(r.connections))
	for _, connection := range r.connections {
		connections = append(connections, connection)
	}

	return connections
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.connections)
}
