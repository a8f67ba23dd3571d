package handler

import (
	"context"
	"errors"

	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/broadcast"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/cyberzid/feed/internal/store"
)

type LikePostRequest struct {
	PostId int
}

type LikePostResponse struct {
	Success    bool `json:"success"`
	LikesCount int  `json:"likes_count"`
}

type LikePostHandler struct {
	store       *store.Store
	broadcaster broadcast.Broadcaster
}

func NewLikePostHandler(store *store.Store, broadcaster broadcast.Broadcaster) *LikePostHandler {
	return &LikePostHandler{
		store,
		broadcaster,
	}
}

func (h *LikePostHandler) Handle(ctx context.Context, req LikePostRequest) (LikePostResponse, error) {
	if _, ok := auth.PrincipalFromContext(ctx); !ok {
		return LikePostResponse{}, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("authentication required"))
	}

	likesCount, err := h.store.LikePost(req.PostId)
	if err != nil {
		return LikePostResponse{}, err
	}

	h.broadcaster.Broadcast(broadcast.PostLikedEvent(req.PostId, likesCount))

	return LikePostResponse{
		Success:    true,
		LikesCount: likesCount,
	}, nil
}
