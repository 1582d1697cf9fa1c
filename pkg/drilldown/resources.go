package drilldown

import (
	"context"

	"github.com/adampresley/albumbrowser/pkg/models"
)

// Resources is where a Controller loads its collections from.
type Resources interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	GetAlbumsByUserID(ctx context.Context, userID uint) ([]models.Album, error)
	GetPhotosFromAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error)
}

// FetchResult is the outcome of one load, tagged with the sequence number it was issued under.
type FetchResult[T any] struct {
	Items []T
	Err   error
	Seq   uint64
}
