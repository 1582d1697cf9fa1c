package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type AlbumServicer interface {
	GetAll(ctx context.Context) ([]models.Album, error)
	GetByUserID(ctx context.Context, userID uint) ([]models.Album, error)
	Save(ctx context.Context, album models.Album) error
}

type AlbumServiceConfig struct {
	DB *sqlz.DB
}

type AlbumService struct {
	db *sqlz.DB
}

func NewAlbumService(config AlbumServiceConfig) AlbumService {
	return AlbumService{
		db: config.DB,
	}
}

func (s AlbumService) GetAll(ctx context.Context) ([]models.Album, error) {
	var (
		err error
	)

	result := []models.Album{}

	sql := `
SELECT
   a.id
   , a.user_id
   , a.title
FROM albums AS a
ORDER BY a.id
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil && !sqlz.IsNotFound(err) {
		return nil, fmt.Errorf("error querying for all albums: %w", err)
	}

	return result, nil
}

func (s AlbumService) GetByUserID(ctx context.Context, userID uint) ([]models.Album, error) {
	var (
		err error
	)

	result := []models.Album{}

	sql := `
SELECT
   a.id
   , a.user_id
   , a.title
FROM albums AS a
WHERE 1=1
   AND a.user_id=?
ORDER BY a.id
`

	params := []any{
		userID,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, params...); err != nil && !sqlz.IsNotFound(err) {
		return nil, fmt.Errorf("error querying for albums by user ID %d: %w", userID, err)
	}

	return result, nil
}

func (s AlbumService) Save(ctx context.Context, album models.Album) error {
	var (
		err error
	)

	sql := `
INSERT INTO albums (
   id
   , user_id
   , title
) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
   user_id=excluded.user_id
   , title=excluded.title
   , updated_at=CURRENT_TIMESTAMP
`

	params := []any{
		album.ID,
		album.UserID,
		album.Title,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving album %d for user %d: %w", album.ID, album.UserID, err)
	}

	return nil
}
