package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/sheetflow/sheetflow-backend/pkg/database"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.UserStorage = &userStorage{}

type userStorage struct {
	db *database.Repo
}

func NewUserStorage(db *database.Repo) *userStorage {
	return &userStorage{db: db}
}

func (s *userStorage) CreateUser(ctx context.Context, username, passwordHash string) (*service.User, error) {
	const op errs.Op = "sqlite.CreateUser"

	res, err := s.db.GetDB().ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, errs.E(op, errs.Exist, errs.UserName(username), err)
		}
		return nil, errs.E(errs.Database, op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	return &service.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

func (s *userStorage) GetUserByUsername(ctx context.Context, username string) (*service.User, error) {
	const op errs.Op = "sqlite.GetUserByUsername"

	user := &service.User{}
	err := s.db.GetDB().QueryRowContext(ctx,
		"SELECT id, username, password_hash FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.E(op, errs.NotExist, errs.UserName(username), "User not found")
	}
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	return user, nil
}
