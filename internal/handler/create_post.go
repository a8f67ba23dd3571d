package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/broadcast"
	"github.com/cyberzid/feed/internal/domain"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/cyberzid/feed/internal/store"
)

type CreatePostRequest struct {
	Content string `json:"content"`
}

type CreatePostResponse struct {
	Success bool        `json:"success"`
	Post    domain.Post `json:"post"`
}

type CreatePostHandler struct {
	store       *store.Store
	broadcaster broadcast.Broadcaster
}

func NewCreatePostHandler(store *store.Store, broadcaster broadcast.Broadcaster) *CreatePostHandler {
	return &CreatePostHandler{
		store,
		broadcaster,
	}
}

func (h *CreatePostHandler) Handle(ctx context.Context, req CreatePostRequest) (CreatePostResponse, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return CreatePostResponse{}, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("authentication required"))
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return CreatePostResponse{}, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("content cannot be empty"))
	}

	post, err := h.store.CreatePost(principal.UserId, content)
	if err != nil {
		return CreatePostResponse{}, err
	}

	// The post is committed before anyone is notified; broadcast is a
	// notification of a completed mutation, never a request for one.
	h.broadcaster.Broadcast(broadcast.NewPostEvent(post))

	return CreatePostResponse{
		Success: true,
		Post:    post,
	}, nil
}
