package handler

import (
	"context"

	"github.com/cyberzid/feed/internal/domain"
	"github.com/cyberzid/feed/internal/store"
)

type ListPostsHandler struct {
	store *store.Store
}

func NewListPostsHandler(store *store.Store) *ListPostsHandler {
	return &ListPostsHandler{
		store,
	}
}

func (h *ListPostsHandler) Handle(ctx context.Context) []domain.Post {
	return h.store.ListPosts()
}
