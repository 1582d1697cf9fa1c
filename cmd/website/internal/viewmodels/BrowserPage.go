package viewmodels

type BrowserPage struct {
	BaseViewModel

	Columns Columns
}

/*
Columns is everything the three-column fragment needs. A column whose slice
is empty is left out of the markup entirely.
*/
type Columns struct {
	Users  []UserRow
	Albums []AlbumRow
	Photos []PhotoRow

	SelectedUserID  uint
	SelectedAlbumID uint

	UsersError  string
	AlbumsError string
	PhotosError string

	Loading bool
	Version uint64
}

type UserRow struct {
	ID       uint
	Name     string
	Selected bool
}

type AlbumRow struct {
	ID       uint
	Title    string
	Selected bool
}

type PhotoRow struct {
	ID           uint
	Title        string
	URL          string
	ThumbnailURL string
}
