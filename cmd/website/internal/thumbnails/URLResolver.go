package thumbnails

import (
	"log/slog"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/albumbrowser/pkg/models"
)

type URLResolverConfig struct {
	AwsBucket string
	S3Client  s3.S3Client
}

// URLResolver serves cached thumbnails from S3 and falls back to the source's thumbnail URL.
type URLResolver struct {
	awsBucket string
	s3Client  s3.S3Client
}

func NewURLResolver(config URLResolverConfig) URLResolver {
	return URLResolver{
		awsBucket: config.AwsBucket,
		s3Client:  config.S3Client,
	}
}

func (r URLResolver) ThumbnailURL(photo models.Photo) string {
	if photo.ThumbnailKey == "" || r.s3Client == nil {
		return photo.ThumbnailURL
	}

	u, err := r.s3Client.GetUrl(r.awsBucket, photo.ThumbnailKey)

	if err != nil {
		slog.Error("error getting cached thumbnail URL", "error", err, "photoID", photo.ID, "key", photo.ThumbnailKey)
		return photo.ThumbnailURL
	}

	return u
}
