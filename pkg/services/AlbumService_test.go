package services

import (
	"context"
	"testing"

	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbumService_GetByUserID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserService(UserServiceConfig{DB: db})
	service := NewAlbumService(AlbumServiceConfig{DB: db})

	require.NoError(t, users.Save(ctx, models.User{ID: 1, Name: "Leanne Graham"}))
	require.NoError(t, users.Save(ctx, models.User{ID: 2, Name: "Ervin Howell"}))

	require.NoError(t, service.Save(ctx, models.Album{ID: 1, UserID: 1, Title: "quidem molestiae enim"}))
	require.NoError(t, service.Save(ctx, models.Album{ID: 2, UserID: 1, Title: "sunt qui excepturi"}))
	require.NoError(t, service.Save(ctx, models.Album{ID: 11, UserID: 2, Title: "quam nostrum impedit"}))

	albums, err := service.GetByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, albums, 2)

	for _, album := range albums {
		assert.Equal(t, uint(1), album.UserID)
	}

	albums, err = service.GetByUserID(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, albums)

	all, err := service.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAlbumService_SaveMovesAlbumToAnotherUser(t *testing.T) {
	ctx := context.Background()
	service := NewAlbumService(AlbumServiceConfig{DB: newTestDB(t)})

	require.NoError(t, service.Save(ctx, models.Album{ID: 5, UserID: 1, Title: "before"}))
	require.NoError(t, service.Save(ctx, models.Album{ID: 5, UserID: 2, Title: "after"}))

	albums, err := service.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, albums)

	albums, err = service.GetByUserID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "after", albums[0].Title)
}
