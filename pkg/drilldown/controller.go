package drilldown

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/adampresley/albumbrowser/pkg/models"
)

// NoSelection is the selected id when nothing is selected.
const NoSelection uint = 0

var (
	ErrDisposed = errors.New("drill-down controller has been disposed")
)

type Option func(c *Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithFetchTimeout bounds each load. Zero means loads are only bounded by cancellation.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.fetchTimeout = timeout
	}
}

/*
WithOnChange registers a callback invoked after every state change. It runs
outside the controller's lock on whichever goroutine made the change, so
callbacks may arrive out of order. Compare Snapshot.Version.
*/
func WithOnChange(onChange func(Snapshot)) Option {
	return func(c *Controller) {
		c.onChange = onChange
	}
}

type fetchSlot struct {
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	err     error
}

// supersede invalidates whatever load is in flight for this slot.
func (s *fetchSlot) supersede() {
	s.seq++

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.loading = false
	s.err = nil
}

type Controller struct {
	resources    Resources
	logger       *slog.Logger
	fetchTimeout time.Duration
	onChange     func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	initialized bool
	disposed    bool
	version     uint64

	users           []models.User
	albums          []models.Album
	photos          []models.Photo
	selectedUserID  uint
	selectedAlbumID uint

	usersFetch  fetchSlot
	albumsFetch fetchSlot
	photosFetch fetchSlot
}

func New(resources Resources, options ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		resources: resources,
		logger:    slog.Default(),
		ctx:       ctx,
		cancel:    cancel,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

/*
Initialize loads the user list. Only the first call does anything; use
ReloadUsers to load again.
*/
func (c *Controller) Initialize() error {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}

	if c.initialized {
		c.mu.Unlock()
		return nil
	}

	c.initialized = true
	c.loadUsersLocked()

	snapshot := c.changedLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

func (c *Controller) ReloadUsers() error {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}

	c.initialized = true
	c.loadUsersLocked()

	snapshot := c.changedLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

/*
SelectUser makes userID the selected user, clears the selected album and its
photos, and loads the user's albums. Selecting the already selected user
loads its albums again.
*/
func (c *Controller) SelectUser(userID uint) error {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}

	c.selectedUserID = userID
	c.selectedAlbumID = NoSelection
	c.photos = nil
	c.photosFetch.supersede()

	issueFetch(c, &c.albumsFetch, "albums",
		func(ctx context.Context) ([]models.Album, error) {
			return c.resources.GetAlbumsByUserID(ctx, userID)
		},
		func(albums []models.Album) {
			c.albums = albums
		},
		slog.Uint64("userID", uint64(userID)),
	)

	snapshot := c.changedLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

// SelectAlbum makes albumID the selected album and loads its photos.
func (c *Controller) SelectAlbum(albumID uint) error {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}

	c.selectedAlbumID = albumID

	issueFetch(c, &c.photosFetch, "photos",
		func(ctx context.Context) ([]models.Photo, error) {
			return c.resources.GetPhotosFromAlbumID(ctx, albumID)
		},
		func(photos []models.Photo) {
			c.photos = photos
		},
		slog.Uint64("albumID", uint64(albumID)),
	)

	snapshot := c.changedLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

/*
Wait blocks until every load issued so far has finished and been applied or
dropped. Loads issued while Wait is blocked are not guaranteed to be covered.
*/
func (c *Controller) Wait() {
	c.wg.Wait()
}

/*
Dispose cancels all in-flight loads and waits for their goroutines to exit.
Afterwards every intent returns ErrDisposed. Dispose is safe to call more
than once.
*/
func (c *Controller) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) loadUsersLocked() {
	issueFetch(c, &c.usersFetch, "users",
		c.resources.GetUsers,
		func(users []models.User) {
			c.users = users
		},
	)
}

/*
issueFetch starts a load for slot on its own goroutine. The caller must hold
c.mu. The load's result is applied only if no newer load has been issued on
the same slot by the time it completes.
*/
func issueFetch[T any](c *Controller, slot *fetchSlot, kind string, fetch func(context.Context) ([]T, error), apply func([]T), attrs ...any) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)

	slot.supersede()

	if c.fetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.fetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(c.ctx)
	}

	slot.cancel = cancel
	slot.loading = true
	seq := slot.seq

	l := c.logger.With(append([]any{"kind", kind, "seq", seq}, attrs...)...)
	l.Debug("fetch issued")

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		defer cancel()

		items, err := fetch(ctx)
		complete(c, slot, l, FetchResult[T]{Items: items, Err: err, Seq: seq}, apply)
	}()
}

func complete[T any](c *Controller, slot *fetchSlot, l *slog.Logger, result FetchResult[T], apply func([]T)) {
	c.mu.Lock()

	if c.disposed || result.Seq != slot.seq {
		latest := slot.seq
		c.mu.Unlock()

		l.Debug("fetch superseded, result dropped", "latestSeq", latest)
		return
	}

	slot.cancel = nil
	slot.loading = false

	if result.Err != nil {
		slot.err = result.Err
		l.Warn("fetch failed", "error", result.Err)
	} else {
		slot.err = nil
		apply(result.Items)
		l.Debug("fetch applied", "count", len(result.Items))
	}

	snapshot := c.changedLocked()
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Controller) changedLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Users:           VisibleUsers(c.users, c.selectedUserID),
		Albums:          VisibleAlbums(c.albums, c.selectedUserID, c.selectedAlbumID),
		Photos:          VisiblePhotos(c.photos, c.selectedAlbumID),
		SelectedUserID:  c.selectedUserID,
		SelectedAlbumID: c.selectedAlbumID,
		UsersError:      c.usersFetch.err,
		AlbumsError:     c.albumsFetch.err,
		PhotosError:     c.photosFetch.err,
		LoadingUsers:    c.usersFetch.loading,
		LoadingAlbums:   c.albumsFetch.loading,
		LoadingPhotos:   c.photosFetch.loading,
		Version:         c.version,
	}
}

func (c *Controller) notify(snapshot Snapshot) {
	if c.onChange != nil {
		c.onChange(snapshot)
	}
}
