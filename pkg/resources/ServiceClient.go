package resources

import (
	"context"

	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/adampresley/albumbrowser/pkg/services"
)

type ServiceClientConfig struct {
	AlbumService services.AlbumServicer
	PhotoService services.PhotoServicer
	UserService  services.UserServicer
}

// ServiceClient reads straight from the local database.
type ServiceClient struct {
	albumService services.AlbumServicer
	photoService services.PhotoServicer
	userService  services.UserServicer
}

func NewServiceClient(config ServiceClientConfig) ServiceClient {
	return ServiceClient{
		albumService: config.AlbumService,
		photoService: config.PhotoService,
		userService:  config.UserService,
	}
}

func (c ServiceClient) GetUsers(ctx context.Context) ([]models.User, error) {
	return c.userService.GetAll(ctx)
}

func (c ServiceClient) GetAlbumsByUserID(ctx context.Context, userID uint) ([]models.Album, error) {
	return c.albumService.GetByUserID(ctx, userID)
}

func (c ServiceClient) GetPhotosFromAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error) {
	return c.photoService.GetByAlbumID(ctx, albumID)
}
