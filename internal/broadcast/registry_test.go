package broadcast

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/cyberzid/feed/internal/ierr"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRegistry(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("live set tracks register and unregister", func(t *testing.T) {
		registry := NewRegistry(logger)

		a := registry.Register()
		b := registry.Register()
		c := registry.Register()
		assert.Equal(t, 3, registry.Size())

		registry.Unregister(b.Id)
		assert.Equal(t, 2, registry.Size())

		ids := make(map[string]bool)
		for _, connection := range registry.Snapshot() {
			ids[connection.Id] = true
		}
		assert.True(t, ids[a.Id])
		assert.False(t, ids[b.Id])
		assert.True(t, ids[c.Id])
	})

	t.Run("unregister is idempotent", func(t *testing.T) {
		registry := NewRegistry(logger)

		connection := registry.Register()
		registry.Unregister(connection.Id)
		registry.Unregister(connection.Id)

		assert.Equal(t, 0, registry.Size())
	})

	t.Run("bind attaches identity", func(t *testing.T) {
		registry := NewRegistry(logger)

		connection := registry.Register()
		_, bound := connection.Identity()
		assert.False(t, bound)

		err := registry.Bind(connection.Id, Identity{UserId: 7, Username: "demo"})
		assert.NoError(t, err)

		identity, bound := connection.Identity()
		assert.True(t, bound)
		assert.Equal(t, 7, identity.UserId)
		assert.Equal(t, "demo", identity.Username)
	})

	t.Run("rebind overwrites identity", func(t *testing.T) {
		registry := NewRegistry(logger)

		connection := registry.Register()
		assert.NoError(t, registry.Bind(connection.Id, Identity{UserId: 7, Username: "demo"}))
		assert.NoError(t, registry.Bind(connection.Id, Identity{UserId: 8, Username: "other"}))

		identity, bound := connection.Identity()
		assert.True(t, bound)
		assert.Equal(t, 8, identity.UserId)
	})

	t.Run("bind on stale id reports unknown connection", func(t *testing.T) {
		registry := NewRegistry(logger)

		connection := registry.Register()
		registry.Unregister(connection.Id)

		err := registry.Bind(connection.Id, Identity{UserId: 7, Username: "demo"})

		assert.Error(t, err)
		var coded ierr.Error
		assert.ErrorAs(t, err, &coded)
		assert.Equal(t, ierr.ErrorCodeUnknownConnection, coded.Code)
		assert.Equal(t, 0, registry.Size())
	})

	t.Run("concurrent register and unregister", func(t *testing.T) {
		registry := NewRegistry(logger)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				connection := registry.Register()
				for _, snapshotted := range registry.Snapshot() {
					_ = snapshotted.Id
				}
				registry.Unregister(connection.Id)
			}()
		}
		wg.Wait()

		assert.Equal(t, 0, registry.Size())
	})
}

type frame struct {
	Type string `json:"type"`
	Data struct {
		PostId     int `json:"post_id"`
		LikesCount int `json:"likes_count"`
	} `json:"data"`
}

func receiveFrame(t *testing.T, connection *Connection) frame {
	t.Helper()

	select {
	case payload := <-connection.Send:
		var f frame
		assert.NoError(t, json.Unmarshal(payload, &f))

		return f
	default:
		t.Fatal("no frame queued")

		return frame{}
	}
}

func TestEventBroadcaster(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("delivers to live connections only", func(t *testing.T) {
		registry := NewRegistry(logger)
		broadcaster := NewEventBroadcaster(logger, registry)

		a := registry.Register()
		b := registry.Register()
		c := registry.Register()
		registry.Unregister(b.Id)

		broadcaster.Broadcast(PostLikedEvent(1, 5))

		for _, connection := range []*Connection{a, c} {
			received := receiveFrame(t, connection)
			assert.Equal(t, "post_liked", received.Type)
			assert.Equal(t, 1, received.Data.PostId)
			assert.Equal(t, 5, received.Data.LikesCount)
		}

		assert.Empty(t, b.Send)
		assert.Equal(t, 2, registry.Size())
	})

	t.Run("preserves order per connection", func(t *testing.T) {
		registry := NewRegistry(logger)
		broadcaster := NewEventBroadcaster(logger, registry)

		connection := registry.Register()

		broadcaster.Broadcast(PostLikedEvent(1, 5))
		broadcaster.Broadcast(PostDeletedEvent(1))

		assert.Equal(t, "post_liked", receiveFrame(t, connection).Type)
		assert.Equal(t, "post_deleted", receiveFrame(t, connection).Type)
	})

	t.Run("write failure unregisters the connection", func(t *testing.T) {
		registry := NewRegistry(logger)
		broadcaster := NewEventBroadcaster(logger, registry)

		slow := registry.Register()

		// Nobody drains the slow connection; fill its queue to the brim.
		for i := 0; i < sendQueueSize; i++ {
			broadcaster.Broadcast(PostLikedEvent(1, i))
		}
		assert.Equal(t, 1, registry.Size())

		healthy := registry.Register()

		// The next broadcast fails on the slow connection and must drop it
		// from the registry before Broadcast returns.
		broadcaster.Broadcast(PostLikedEvent(1, 99))

		assert.Equal(t, 1, registry.Size())
		assert.Equal(t, healthy.Id, registry.Snapshot()[0].Id)
		assert.Equal(t, 99, receiveFrame(t, healthy).Data.LikesCount)
		assert.Len(t, slow.Send, sendQueueSize)

		select {
		case <-slow.Done():
		default:
			t.Fatal("dropped connection should be closed")
		}
	})

	t.Run("broadcast to empty registry is a no-op", func(t *testing.T) {
		registry := NewRegistry(logger)
		broadcaster := NewEventBroadcaster(logger, registry)

		broadcaster.Broadcast(PostDeletedEvent(3))

		assert.Equal(t, 0, registry.Size())
	})
}
