package service

import "context"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

type UserStorage interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

type UserService interface {
	Signup(ctx context.Context, creds CredentialsDto) (*AuthResponse, error)
	Login(ctx context.Context, creds CredentialsDto) (*AuthResponse, error)
}

type CredentialsDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned with HTTP 200 regardless of outcome; bad
// credentials and duplicate usernames are not transport errors.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
