package handler

import (
	"context"
	"errors"

	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/cyberzid/feed/internal/store"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    UserPayload `json:"user"`
}

type LoginHandler struct {
	store         *store.Store
	authenticator *auth.Authenticator
}

func NewLoginHandler(store *store.Store, authenticator *auth.Authenticator) *LoginHandler {
	return &LoginHandler{
		store,
		authenticator,
	}
}

func (h *LoginHandler) Handle(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return LoginResponse{}, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("email and password are required"))
	}

	user, err := h.store.UserByEmail(req.Email)
	if err != nil {
		return LoginResponse{}, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("invalid credentials"))
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return LoginResponse{}, err
	}

	token, err := h.authenticator.IssueToken(user)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		Success: true,
		Token:   token,
		User:    userPayload(user),
	}, nil
}
