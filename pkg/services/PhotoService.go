package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type PhotoServicer interface {
	GetByAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error)
	Save(ctx context.Context, photo models.Photo) error
	SetThumbnailKey(ctx context.Context, photoID uint, key string) error
}

type PhotoServiceConfig struct {
	DB *sqlz.DB
}

type PhotoService struct {
	db *sqlz.DB
}

func NewPhotoService(config PhotoServiceConfig) PhotoService {
	return PhotoService{
		db: config.DB,
	}
}

func (s PhotoService) GetByAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error) {
	var (
		err error
	)

	result := []models.Photo{}

	sql := `
SELECT
   p.id
   , p.album_id
   , p.title
   , p.url
   , p.thumbnail_url
   , p.thumbnail_key
FROM photos AS p
WHERE 1=1
   AND p.album_id=?
ORDER BY p.id
`

	params := []any{
		albumID,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, params...); err != nil && !sqlz.IsNotFound(err) {
		return nil, fmt.Errorf("error querying for photos by album ID %d: %w", albumID, err)
	}

	return result, nil
}

/*
Save inserts or updates a photo. A cached thumbnail key survives the update
unless the photo's source URL changed, in which case the cached copy is stale
and the key is cleared so the thumbnail cache rebuilds it.
*/
func (s PhotoService) Save(ctx context.Context, photo models.Photo) error {
	var (
		err error
	)

	sql := `
INSERT INTO photos (
   id
   , album_id
   , title
   , url
   , thumbnail_url
) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
   album_id=excluded.album_id
   , title=excluded.title
   , thumbnail_key=CASE WHEN photos.url=excluded.url THEN photos.thumbnail_key ELSE '' END
   , url=excluded.url
   , thumbnail_url=excluded.thumbnail_url
   , updated_at=CURRENT_TIMESTAMP
`

	params := []any{
		photo.ID,
		photo.AlbumID,
		photo.Title,
		photo.URL,
		photo.ThumbnailURL,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving photo %d for album %d: %w", photo.ID, photo.AlbumID, err)
	}

	return nil
}

func (s PhotoService) SetThumbnailKey(ctx context.Context, photoID uint, key string) error {
	var (
		err error
	)

	sql := `
UPDATE photos SET
   thumbnail_key=?
   , updated_at=CURRENT_TIMESTAMP
WHERE id=?
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, key, photoID); err != nil {
		return fmt.Errorf("error setting thumbnail key for photo %d: %w", photoID, err)
	}

	return nil
}
