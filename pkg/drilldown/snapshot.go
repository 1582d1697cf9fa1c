package drilldown

import (
	"github.com/adampresley/albumbrowser/pkg/models"
)

/*
Snapshot is a read-only copy of a controller's state, projected for
rendering. Version increases with every state change, so a consumer holding
two snapshots can tell which is newer.
*/
type Snapshot struct {
	Users  []UserItem
	Albums []AlbumItem
	Photos []models.Photo

	SelectedUserID  uint
	SelectedAlbumID uint

	UsersError  error
	AlbumsError error
	PhotosError error

	LoadingUsers  bool
	LoadingAlbums bool
	LoadingPhotos bool

	Version uint64
}

func (s Snapshot) IsLoading() bool {
	return s.LoadingUsers || s.LoadingAlbums || s.LoadingPhotos
}
