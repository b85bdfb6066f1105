package core

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.UserService = &userService{}

type userService struct {
	userStorage service.UserStorage
}

func NewUserService(storage service.UserStorage) *userService {
	return &userService{userStorage: storage}
}

func (s *userService) Signup(ctx context.Context, creds service.CredentialsDto) (*service.AuthResponse, error) {
	const op errs.Op = "userService.Signup"

	if creds.Username == "" || creds.Password == "" {
		return &service.AuthResponse{Success: false, Message: "Username and password required"}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.E(op, errs.Internal, err)
	}

	_, err = s.userStorage.CreateUser(ctx, creds.Username, string(hash))
	if errs.KindIs(errs.Exist, err) {
		return &service.AuthResponse{Success: false, Message: "Username already exists"}, nil
	}
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &service.AuthResponse{Success: true, Message: "Signup successful"}, nil
}

func (s *userService) Login(ctx context.Context, creds service.CredentialsDto) (*service.AuthResponse, error) {
	const op errs.Op = "userService.Login"

	invalid := &service.AuthResponse{Success: false, Message: "Invalid username or password"}

	user, err := s.userStorage.GetUserByUsername(ctx, creds.Username)
	if errs.KindIs(errs.NotExist, err) {
		return invalid, nil
	}
	if err != nil {
		return nil, errs.E(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return invalid, nil
	}

	return &service.AuthResponse{Success: true, Message: "Login successful"}, nil
}
