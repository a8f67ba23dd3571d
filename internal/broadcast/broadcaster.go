package broadcast

import (
	"encoding/json"
	"errors"

	"github.com/cyberzid/feed/internal/ierr"
	"go.uber.org/zap"
)

// Broadcaster fans one domain event out to every live connection. Delivery is
// best-effort at-most-once; Broadcast never reports partial failure to its
// caller.
type Broadcaster interface {
	Broadcast(event Event)
}

type EventBroadcaster struct {
	logger   *zap.Logger
	registry *Registry
}

func NewEventBroadcaster(logger *zap.Logger, registry *Registry) *EventBroadcaster {
	return &EventBroadcaster{
		logger:   logger,
		registry: registry,
	}
}

// Broadcast serializes the event once, snapshots the registry, and attempts a
// non-blocking write to each connection. A connection whose send queue is not
// writable is unregistered on the spot so dead entries cannot accumulate; a
// connection that closed between snapshot and delivery is skipped.
func (b *EventBroadcaster) Broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to serialize event",
			zap.String("type", string(event.Type)),
			zap.Error(err))

		return
	}

	for _, connection := range b.registry.Snapshot() {
		select {
		case <-connection.Done():
			// Closed mid-broadcast; its own lifecycle handles the removal.
		case connection.Send <- payload:
		default:
			writeFailure := ierr.New(ierr.ErrorCodeChannelWriteFailure, errors.New("send queue is full"))
			b.logger.Warn("dropping unresponsive connection",
				zap.String("connectionId", connection.Id),
				zap.Error(writeFailure))

			b.registry.Unregister(connection.Id)
		}
	}
}

// NopBroadcaster drops every event. It composes the REST-only variant of the
// service, where no push layer is mounted.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(Event) {}
