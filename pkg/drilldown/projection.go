package drilldown

import (
	"github.com/adampresley/albumbrowser/pkg/models"
)

type UserItem struct {
	models.User
	Selected bool
}

type AlbumItem struct {
	models.Album
	Selected bool
}

/*
VisibleUsers returns every user in load order, marking the selected one.
An empty input yields nil so the renderer can leave the column out.
*/
func VisibleUsers(users []models.User, selectedUserID uint) []UserItem {
	var result []UserItem

	for _, user := range users {
		result = append(result, UserItem{
			User:     user,
			Selected: selectedUserID != NoSelection && user.ID == selectedUserID,
		})
	}

	return result
}

// VisibleAlbums keeps only albums owned by the selected user.
func VisibleAlbums(albums []models.Album, selectedUserID, selectedAlbumID uint) []AlbumItem {
	var result []AlbumItem

	if selectedUserID == NoSelection {
		return nil
	}

	for _, album := range albums {
		if album.UserID != selectedUserID {
			continue
		}

		result = append(result, AlbumItem{
			Album:    album,
			Selected: selectedAlbumID != NoSelection && album.ID == selectedAlbumID,
		})
	}

	return result
}

// VisiblePhotos keeps only photos in the selected album.
func VisiblePhotos(photos []models.Photo, selectedAlbumID uint) []models.Photo {
	var result []models.Photo

	if selectedAlbumID == NoSelection {
		return nil
	}

	for _, photo := range photos {
		if photo.AlbumID == selectedAlbumID {
			result = append(result, photo)
		}
	}

	return result
}
