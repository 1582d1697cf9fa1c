package thumbnails

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/adampresley/albumbrowser/pkg/services"
	"github.com/alitto/pond/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nfnt/resize"
)

const (
	DefaultMaxSize uint = 150
)

type ThumbnailCreator interface {
	CreateThumbnails()
}

type ThumbnailCreatorConfig struct {
	AlbumService    services.AlbumServicer
	AwsBucket       string
	AwsRegion       string
	HttpClient      *http.Client
	MaxSize         uint
	MaxWorkers      int
	PhotoService    services.PhotoServicer
	S3Client        s3.S3Client
	ShutdownCtx     context.Context
	ThumbnailFolder string
}

/*
ThumbnailCreatorService resizes every photo that has no cached thumbnail yet
and stores the result in S3. Once stored, the photo's thumbnail key is
recorded so the browser serves the cached copy.
*/
type ThumbnailCreatorService struct {
	albumService    services.AlbumServicer
	awsBucket       string
	awsRegion       string
	httpClient      *http.Client
	maxSize         uint
	maxWorkers      int
	photoService    services.PhotoServicer
	s3Client        s3.S3Client
	shutdownCtx     context.Context
	thumbnailFolder string
}

func NewThumbnailCreatorService(config ThumbnailCreatorConfig) ThumbnailCreatorService {
	if config.HttpClient == nil {
		config.HttpClient = http.DefaultClient
	}

	if config.MaxSize == 0 {
		config.MaxSize = DefaultMaxSize
	}

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 1
	}

	return ThumbnailCreatorService{
		albumService:    config.AlbumService,
		awsBucket:       config.AwsBucket,
		awsRegion:       config.AwsRegion,
		httpClient:      config.HttpClient,
		maxSize:         config.MaxSize,
		maxWorkers:      config.MaxWorkers,
		photoService:    config.PhotoService,
		s3Client:        config.S3Client,
		shutdownCtx:     config.ShutdownCtx,
		thumbnailFolder: config.ThumbnailFolder,
	}
}

func (c ThumbnailCreatorService) CreateThumbnails() {
	var (
		err    error
		albums []models.Album
	)

	slog.Info("starting thumbnail cache creation...")

	if err = c.ensureBucketExists(c.awsBucket); err != nil {
		slog.Error("error ensuring bucket exists. aborting", "bucket", c.awsBucket, "error", err)
		return
	}

	if albums, err = c.albumService.GetAll(c.shutdownCtx); err != nil {
		slog.Error("error retrieving albums from database", "error", err)
		return
	}

	slog.Info("creating thumbnails for albums...", "numAlbums", len(albums))

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	for _, album := range albums {
		var (
			photos   []models.Photo
			existing []string
		)

		if existing, err = c.getExistingThumbnailKeys(album); err != nil {
			slog.Error("error listing cached thumbnails for album", "albumID", album.ID, "error", err)
			continue
		}

		if photos, err = c.photoService.GetByAlbumID(c.shutdownCtx, album.ID); err != nil {
			slog.Error("error retrieving photos for album", "albumID", album.ID, "error", err)
			continue
		}

		for _, photo := range photos {
			key := ThumbnailKey(c.thumbnailFolder, album.ID, photo.ID)

			if slices.IsInSlice(key, existing) {
				if photo.ThumbnailKey != key {
					c.recordThumbnailKey(photo, key)
				}

				continue
			}

			pool.Submit(func() {
				slog.Info("creating thumbnail for photo...", "albumID", album.ID, "photoID", photo.ID)

				if err := c.createThumbnail(photo, key); err != nil {
					slog.Error("error creating thumbnail for photo", "albumID", album.ID, "photoID", photo.ID, "url", photo.URL, "error", err)
					return
				}

				c.recordThumbnailKey(photo, key)
			})
		}
	}

	_ = pool.Stop().Wait()
	slog.Info("thumbnail cache creation finished")
}

func (c ThumbnailCreatorService) ensureBucketExists(bucketName string) error {
	var (
		err    error
		exists bool
	)

	exists, err = c.s3Client.BucketExists(bucketName)

	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", bucketName, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", bucketName)

	err = c.s3Client.CreateBucket(
		bucketName,
		createbucketoptions.WithRegion(c.awsRegion),
	)

	if err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", bucketName, err)
	}

	return nil
}

func (c ThumbnailCreatorService) getExistingThumbnailKeys(album models.Album) ([]string, error) {
	var (
		err      error
		response s3.ListResponse
	)

	prefix := path.Join(c.thumbnailFolder, fmt.Sprint(album.ID)) + "/"

	response, err = c.s3Client.List(
		c.awsBucket,
		prefix,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return IsThumbnailKey(aws.ToString(obj.Key))
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("error listing thumbnails under %s: %w", prefix, err)
	}

	return slices.Map(response.Objects, func(input s3.Object, index int) string {
		return input.Key
	}), nil
}

func (c ThumbnailCreatorService) recordThumbnailKey(photo models.Photo, key string) {
	if err := c.photoService.SetThumbnailKey(c.shutdownCtx, photo.ID, key); err != nil {
		slog.Error("error recording thumbnail key", "photoID", photo.ID, "key", key, "error", err)
	}
}

func (c ThumbnailCreatorService) createThumbnail(photo models.Photo, key string) error {
	var (
		err error
		img image.Image
		buf bytes.Buffer
	)

	if img, err = c.resizeUrl(photo.URL, c.maxSize); err != nil {
		return err
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("error encoding image for thumbnail: %w", err)
	}

	if _, err = c.s3Client.Put(c.awsBucket, key, &buf); err != nil {
		return fmt.Errorf("error uploading thumbnail to S3: %w", err)
	}

	return nil
}

func (c ThumbnailCreatorService) resizeUrl(url string, maxSize uint) (image.Image, error) {
	var (
		err      error
		request  *http.Request
		response *http.Response
	)

	if request, err = http.NewRequestWithContext(c.shutdownCtx, http.MethodGet, url, nil); err != nil {
		return nil, fmt.Errorf("error creating request for '%s': %w", url, err)
	}

	if response, err = c.httpClient.Do(request); err != nil {
		return nil, fmt.Errorf("error downloading image from '%s': %w", url, err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading image from '%s', status: %s", url, response.Status)
	}

	return ResizeReader(response.Body, maxSize)
}

func ResizeReader(r io.Reader, maxSize uint) (image.Image, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	bounds := img.Bounds()
	width, height := ScaledDimensions(uint(bounds.Dx()), uint(bounds.Dy()), maxSize)

	return resize.Resize(width, height, img, resize.Lanczos3), nil
}

/*
ScaledDimensions fits width and height inside a maxSize square, scaling by
the longest edge and keeping the aspect ratio.
*/
func ScaledDimensions(width, height, maxSize uint) (uint, uint) {
	if width == 0 || height == 0 {
		return maxSize, maxSize
	}

	if width > height {
		// Landscape orientation
		return maxSize, uint(float64(height) * (float64(maxSize) / float64(width)))
	}

	// Portrait orientation or square
	return uint(float64(width) * (float64(maxSize) / float64(height))), maxSize
}

func ThumbnailKey(folder string, albumID, photoID uint) string {
	return path.Join(folder, fmt.Sprint(albumID), fmt.Sprintf("%d.jpg", photoID))
}

func IsThumbnailKey(key string) bool {
	return strings.ToLower(path.Ext(key)) == ".jpg"
}
