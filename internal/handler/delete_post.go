package handler

import (
	"context"
	"errors"

	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/broadcast"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/cyberzid/feed/internal/store"
)

type DeletePostRequest struct {
	PostId int
}

type DeletePostResponse struct {
	Success bool `json:"success"`
}

type DeletePostHandler struct {
	store       *store.Store
	broadcaster broadcast.Broadcaster
}

func NewDeletePostHandler(store *store.Store, broadcaster broadcast.Broadcaster) *DeletePostHandler {
	return &DeletePostHandler{
		store,
		broadcaster,
	}
}

func (h *DeletePostHandler) Handle(ctx context.Context, req DeletePostRequest) (DeletePostResponse, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return DeletePostResponse{}, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("authentication required"))
	}

	err := h.store.DeletePost(req.PostId, principal.UserId)
	if err != nil {
		return DeletePostResponse{}, err
	}

	h.broadcaster.Broadcast(broadcast.PostDeletedEvent(req.PostId))

	return DeletePostResponse{
		Success: true,
	}, nil
}
