package handler

import (
	"context"
	"errors"

	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/cyberzid/feed/internal/store"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type RegisterResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    UserPayload `json:"user"`
}

type RegisterHandler struct {
	store         *store.Store
	authenticator *auth.Authenticator
}

func NewRegisterHandler(store *store.Store, authenticator *auth.Authenticator) *RegisterHandler {
	return &RegisterHandler{
		store,
		authenticator,
	}
}

func (h *RegisterHandler) Handle(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	if req.Email == "" || req.Password == "" || req.Username == "" || req.FullName == "" {
		return RegisterResponse{}, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("all fields are required"))
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return RegisterResponse{}, err
	}

	user, err := h.store.CreateUser(store.CreateUserRequest{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
	})
	if err != nil {
		return RegisterResponse{}, err
	}

	token, err := h.authenticator.IssueToken(user)
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		Success: true,
		Token:   token,
		User:    userPayload(user),
	}, nil
}
