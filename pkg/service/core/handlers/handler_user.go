package handlers

import (
	"context"
	"net/http"

	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

type userHandler struct {
	userService service.UserService
}

func NewUserHandler(s service.UserService) *userHandler {
	return &userHandler{userService: s}
}

func (h *userHandler) Signup(ctx context.Context, _ *http.Request, in service.CredentialsDto) (*service.AuthResponse, error) {
	return h.userService.Signup(ctx, in)
}

func (h *userHandler) Login(ctx context.Context, _ *http.Request, in service.CredentialsDto) (*service.AuthResponse, error) {
	return h.userService.Login(ctx, in)
}
