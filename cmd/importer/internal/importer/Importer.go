package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/adampresley/albumbrowser/pkg/services"
	"github.com/alitto/pond/v2"
)

// Source is where users, albums, and photos are imported from.
type Source interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	GetAlbumsByUserID(ctx context.Context, userID uint) ([]models.Album, error)
	GetPhotosFromAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error)
}

type Summary struct {
	Users  int
	Albums int
	Photos int
}

type ImporterConfig struct {
	AlbumService services.AlbumServicer
	MaxWorkers   int
	PhotoService services.PhotoServicer
	Source       Source
	UserService  services.UserServicer
}

type Importer struct {
	albumService services.AlbumServicer
	maxWorkers   int
	photoService services.PhotoServicer
	source       Source
	userService  services.UserServicer
}

func NewImporter(config ImporterConfig) Importer {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 1
	}

	return Importer{
		albumService: config.AlbumService,
		maxWorkers:   config.MaxWorkers,
		photoService: config.PhotoService,
		source:       config.Source,
		userService:  config.UserService,
	}
}

/*
Run copies every user from the source, then fans out one task per user to
copy that user's albums and each album's photos. A failing user does not stop
the others; every failure is returned joined together.
*/
func (i Importer) Run(ctx context.Context) (Summary, error) {
	var (
		err       error
		users     []models.User
		numAlbums atomic.Int64
		numPhotos atomic.Int64
		errMu     sync.Mutex
		errs      []error
	)

	if users, err = i.source.GetUsers(ctx); err != nil {
		return Summary{}, fmt.Errorf("error fetching users from source: %w", err)
	}

	for _, user := range users {
		if err = i.userService.Save(ctx, user); err != nil {
			return Summary{}, err
		}
	}

	slog.Info("users imported", "numUsers", len(users))

	pool := pond.NewPool(i.maxWorkers, pond.WithContext(ctx))

	for _, user := range users {
		pool.Submit(func() {
			albums, photos, err := i.importUser(ctx, user)

			numAlbums.Add(int64(albums))
			numPhotos.Add(int64(photos))

			if err != nil {
				slog.Error("error importing user", "userID", user.ID, "error", err)

				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
		})
	}

	_ = pool.Stop().Wait()

	summary := Summary{
		Users:  len(users),
		Albums: int(numAlbums.Load()),
		Photos: int(numPhotos.Load()),
	}

	return summary, errors.Join(errs...)
}

func (i Importer) importUser(ctx context.Context, user models.User) (int, int, error) {
	var (
		err       error
		albums    []models.Album
		photos    []models.Photo
		numPhotos int
	)

	if albums, err = i.source.GetAlbumsByUserID(ctx, user.ID); err != nil {
		return 0, 0, fmt.Errorf("error fetching albums for user %d: %w", user.ID, err)
	}

	for index, album := range albums {
		if err = i.albumService.Save(ctx, album); err != nil {
			return index, numPhotos, err
		}

		if photos, err = i.source.GetPhotosFromAlbumID(ctx, album.ID); err != nil {
			return index + 1, numPhotos, fmt.Errorf("error fetching photos for album %d: %w", album.ID, err)
		}

		for _, photo := range photos {
			if err = i.photoService.Save(ctx, photo); err != nil {
				return index + 1, numPhotos, err
			}

			numPhotos++
		}
	}

	slog.Debug("user imported", "userID", user.ID, "numAlbums", len(albums), "numPhotos", numPhotos)
	return len(albums), numPhotos, nil
}
