package handler

import (
	"context"
	"time"

	"github.com/cyberzid/feed/internal/domain"
	"github.com/cyberzid/feed/internal/store"
	"github.com/samber/lo"
)

// UserPayload is the public view of an account; it never carries credentials.
type UserPayload struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

func userPayload(user domain.User) UserPayload {
	return UserPayload{
		Id:       user.Id,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Avatar:   user.Avatar,
		Bio:      user.Bio,
	}
}

type UserProfileResponse struct {
	Id         int       `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	Bio        string    `json:"bio"`
	CreateTime time.Time `json:"created_at"`
	PostsCount int       `json:"posts_count"`
}

type UserProfileHandler struct {
	store *store.Store
}

func NewUserProfileHandler(store *store.Store) *UserProfileHandler {
	return &UserProfileHandler{
		store,
	}
}

func (h *UserProfileHandler) Handle(ctx context.Context, username string) (UserProfileResponse, error) {
	user, err := h.store.UserByUsername(username)
	if err != nil {
		return UserProfileResponse{}, err
	}

	return UserProfileResponse{
		Id:         user.Id,
		Username:   user.Username,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		Bio:        user.Bio,
		CreateTime: user.CreateTime,
		PostsCount: h.store.CountPostsBy(user.Id),
	}, nil
}

type ListUsersHandler struct {
	store *store.Store
}

func NewListUsersHandler(store *store.Store) *ListUsersHandler {
	return &ListUsersHandler{
		store,
	}
}

func (h *ListUsersHandler) Handle(ctx context.Context) []UserPayload {
	return lo.Map(h.store.ListUsers(), func(user domain.User, _ int) UserPayload {
		payload := userPayload(user)
		payload.Email = ""

		return payload
	})
}
