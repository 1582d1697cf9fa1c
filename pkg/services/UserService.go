package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type UserServicer interface {
	GetAll(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user models.User) error
}

type UserServiceConfig struct {
	DB *sqlz.DB
}

type UserService struct {
	db *sqlz.DB
}

func NewUserService(config UserServiceConfig) UserService {
	return UserService{
		db: config.DB,
	}
}

func (s UserService) GetAll(ctx context.Context) ([]models.User, error) {
	var (
		err error
	)

	users := []models.User{}

	sql := `
SELECT
   u.id
   , u.name
   , u.username
   , u.email
FROM users AS u
ORDER BY u.id
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &users, sql); err != nil && !sqlz.IsNotFound(err) {
		return nil, fmt.Errorf("error querying for all users: %w", err)
	}

	return users, nil
}

func (s UserService) Save(ctx context.Context, user models.User) error {
	var (
		err error
	)

	sql := `
INSERT INTO users (
   id
   , name
   , username
   , email
) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
   name=excluded.name
   , username=excluded.username
   , email=excluded.email
   , updated_at=CURRENT_TIMESTAMP
`

	params := []any{
		user.ID,
		user.Name,
		user.Username,
		user.Email,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving user %d: %w", user.ID, err)
	}

	return nil
}
