package handler

import (
	"context"
	"errors"

	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/broadcast"
	"github.com/cyberzid/feed/internal/domain"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/cyberzid/feed/internal/store"
)

type SendMessageRequest struct {
	SenderId   int    `json:"sender_id"`
	ReceiverId int    `json:"receiver_id"`
	Content    string `json:"content"`
}

// SendMessageHandler appends a direct message and fans it out. The sender and
// receiver ids come from the request payload itself, matching the channel
// protocol: the sending connection's bound identity is not consulted.
type SendMessageHandler struct {
	store       *store.Store
	broadcaster broadcast.Broadcaster
}

func NewSendMessageHandler(store *store.Store, broadcaster broadcast.Broadcaster) *SendMessageHandler {
	return &SendMessageHandler{
		store,
		broadcaster,
	}
}

func (h *SendMessageHandler) Handle(ctx context.Context, req SendMessageRequest) (domain.DirectMessage, error) {
	message := h.store.AppendMessage(req.SenderId, req.ReceiverId, req.Content)

	h.broadcaster.Broadcast(broadcast.NewMessageEvent(message))

	return message, nil
}

type ListMessagesHandler struct {
	store *store.Store
}

func NewListMessagesHandler(store *store.Store) *ListMessagesHandler {
	return &ListMessagesHandler{
		store,
	}
}

func (h *ListMessagesHandler) Handle(ctx context.Context) ([]domain.DirectMessage, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("authentication required"))
	}

	return h.store.MessagesFor(principal.UserId), nil
}
