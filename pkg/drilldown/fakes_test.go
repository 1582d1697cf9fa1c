package drilldown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adampresley/albumbrowser/pkg/models"
)

/*
stubResources answers immediately from fixed data.
*/
type stubResources struct {
	mu sync.Mutex

	users     []models.User
	usersErr  error
	albums    map[uint][]models.Album
	albumsErr error
	photos    map[uint][]models.Photo
	photosErr error

	userCalls int
}

func (s *stubResources) GetUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userCalls++
	return s.users, s.usersErr
}

func (s *stubResources) GetAlbumsByUserID(ctx context.Context, userID uint) ([]models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.albums[userID], s.albumsErr
}

func (s *stubResources) GetPhotosFromAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.photos[albumID], s.photosErr
}

type gatedReply struct {
	users  []models.User
	albums []models.Album
	photos []models.Photo
	err    error
}

type pendingFetch struct {
	kind  string
	id    uint
	ctx   context.Context
	reply chan gatedReply
}

func (p *pendingFetch) respond(reply gatedReply) {
	p.reply <- reply
}

/*
gatedResources holds every fetch until the test answers it, so tests decide
the order in which fetches resolve.
*/
type gatedResources struct {
	pending chan *pendingFetch
}

func newGatedResources() *gatedResources {
	return &gatedResources{
		pending: make(chan *pendingFetch, 32),
	}
}

func (g *gatedResources) await(ctx context.Context, kind string, id uint) (gatedReply, error) {
	p := &pendingFetch{
		kind:  kind,
		id:    id,
		ctx:   ctx,
		reply: make(chan gatedReply, 1),
	}

	g.pending <- p

	select {
	case r := <-p.reply:
		return r, nil

	case <-ctx.Done():
		return gatedReply{}, ctx.Err()
	}
}

func (g *gatedResources) GetUsers(ctx context.Context) ([]models.User, error) {
	r, err := g.await(ctx, "users", 0)
	if err != nil {
		return nil, err
	}

	return r.users, r.err
}

func (g *gatedResources) GetAlbumsByUserID(ctx context.Context, userID uint) ([]models.Album, error) {
	r, err := g.await(ctx, "albums", userID)
	if err != nil {
		return nil, err
	}

	return r.albums, r.err
}

func (g *gatedResources) GetPhotosFromAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error) {
	r, err := g.await(ctx, "photos", albumID)
	if err != nil {
		return nil, err
	}

	return r.photos, r.err
}

func (g *gatedResources) next(t *testing.T, kind string, id uint) *pendingFetch {
	t.Helper()

	select {
	case p := <-g.pending:
		if p.kind != kind || p.id != id {
			t.Fatalf("expected %s fetch for %d, got %s fetch for %d", kind, id, p.kind, p.id)
		}

		return p

	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s fetch for %d", kind, id)
	}

	return nil
}

func albumsOf(s Snapshot) []models.Album {
	var result []models.Album

	for _, item := range s.Albums {
		result = append(result, item.Album)
	}

	return result
}
