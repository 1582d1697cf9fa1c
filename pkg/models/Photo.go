package models

/*
Photo is a single image in an album. URL and ThumbnailURL come from the
resource source. ThumbnailKey is set once the thumbnail cache has stored a
resized copy in S3, and is never sent over the resource API.
*/
type Photo struct {
	ID           uint   `json:"id" db:"id"`
	AlbumID      uint   `json:"albumId" db:"album_id"`
	Title        string `json:"title" db:"title"`
	URL          string `json:"url" db:"url"`
	ThumbnailURL string `json:"thumbnailUrl" db:"thumbnail_url"`
	ThumbnailKey string `json:"-" db:"thumbnail_key"`
}
