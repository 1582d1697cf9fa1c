package browser

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/albumbrowser/cmd/website/internal/viewmodels"
	"github.com/adampresley/albumbrowser/pkg/drilldown"
	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResources struct {
	users    []models.User
	usersErr error
	albums   map[uint][]models.Album
	photos   map[uint][]models.Photo
}

func (s stubResources) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.users, s.usersErr
}

func (s stubResources) GetAlbumsByUserID(ctx context.Context, userID uint) ([]models.Album, error) {
	return s.albums[userID], nil
}

func (s stubResources) GetPhotosFromAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error) {
	return s.photos[albumID], nil
}

type prefixResolver struct{}

func (prefixResolver) ThumbnailURL(photo models.Photo) string {
	return "https://cdn.example.com/" + photo.Title + ".jpg"
}

var fixtures = stubResources{
	users: []models.User{
		{ID: 1, Name: "Leanne Graham"},
		{ID: 2, Name: "Ervin Howell"},
	},
	albums: map[uint][]models.Album{
		1: {
			{ID: 1, UserID: 1, Title: "quidem molestiae enim"},
			{ID: 2, UserID: 1, Title: "sunt qui excepturi"},
		},
	},
	photos: map[uint][]models.Photo{
		2: {
			{ID: 51, AlbumID: 2, Title: "non-sunt", URL: "https://via.placeholder.com/600/8e973b", ThumbnailURL: "https://via.placeholder.com/150/8e973b"},
		},
	},
}

type testHarness struct {
	registry *drilldown.Registry
	handler  http.Handler
}

func newTestHarness(t *testing.T, resources drilldown.Resources, resolver ThumbnailResolver) *testHarness {
	t.Helper()

	renderer, err := rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        os.DirFS("../.."),
		PagesDir:          "pages",
	})
	require.NoError(t, err)

	registry := drilldown.NewRegistry(drilldown.RegistryConfig{Resources: resources})
	t.Cleanup(registry.Close)

	controller := NewBrowserController(BrowserControllerConfig{
		Registry:          registry,
		Renderer:          renderer,
		ThumbnailResolver: resolver,
	})

	m := http.NewServeMux()
	m.HandleFunc("GET /{$}", controller.BrowserPage)
	m.HandleFunc("GET /columns", controller.Columns)
	m.HandleFunc("POST /users/reload", controller.ReloadUsers)
	m.HandleFunc("POST /users/{id}/select", controller.SelectUser)
	m.HandleFunc("POST /albums/{id}/select", controller.SelectAlbum)

	return &testHarness{registry: registry, handler: m}
}

func (h *testHarness) do(t *testing.T, method, path, viewerID string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(viewmodels.WithViewer(req.Context(), &models.Viewer{ID: viewerID}))

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	b, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	return rec.Code, string(b)
}

func (h *testHarness) settle(t *testing.T, viewerID string) {
	t.Helper()

	controller, err := h.registry.Get(viewerID)
	require.NoError(t, err)
	controller.Wait()
}

func TestBrowserController_ColumnsOmitsEmptyColumns(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.settle(t, "viewer")

	code, body := h.do(t, http.MethodGet, "/columns", "viewer")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, `class="column users"`)
	assert.Contains(t, body, "Leanne Graham")
	assert.Contains(t, body, "Ervin Howell")
	assert.NotContains(t, body, `class="column albums"`)
	assert.NotContains(t, body, `class="column photos"`)
	assert.NotContains(t, body, "hx-get=\"/columns\"")
	assert.NotContains(t, body, "selected")
}

func TestBrowserController_DrillDown(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.settle(t, "viewer")

	code, body := h.do(t, http.MethodPost, "/users/1/select", "viewer")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `class="item user selected" hx-post="/users/1/select"`)
	assert.Contains(t, body, `class="item user" hx-post="/users/2/select"`)

	h.settle(t, "viewer")

	_, body = h.do(t, http.MethodGet, "/columns", "viewer")
	assert.Contains(t, body, `class="column albums"`)
	assert.Contains(t, body, "quidem molestiae enim")
	assert.NotContains(t, body, `class="column photos"`)

	code, body = h.do(t, http.MethodPost, "/albums/2/select", "viewer")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `class="item album selected" hx-post="/albums/2/select"`)

	h.settle(t, "viewer")

	_, body = h.do(t, http.MethodGet, "/columns", "viewer")
	assert.Contains(t, body, `class="column photos"`)
	assert.Contains(t, body, `src="https://via.placeholder.com/150/8e973b"`)

	/*
	 * A user without albums hides both the albums and photos columns.
	 */
	_, _ = h.do(t, http.MethodPost, "/users/2/select", "viewer")
	h.settle(t, "viewer")

	_, body = h.do(t, http.MethodGet, "/columns", "viewer")
	assert.Contains(t, body, `class="item user selected" hx-post="/users/2/select"`)
	assert.NotContains(t, body, `class="column albums"`)
	assert.NotContains(t, body, `class="column photos"`)
}

func TestBrowserController_UsesThumbnailResolver(t *testing.T) {
	h := newTestHarness(t, fixtures, prefixResolver{})
	h.settle(t, "viewer")

	_, _ = h.do(t, http.MethodPost, "/users/1/select", "viewer")
	h.settle(t, "viewer")
	_, _ = h.do(t, http.MethodPost, "/albums/2/select", "viewer")
	h.settle(t, "viewer")

	_, body := h.do(t, http.MethodGet, "/columns", "viewer")
	assert.Contains(t, body, `src="https://cdn.example.com/non-sunt.jpg"`)
}

func TestBrowserController_LoadErrorOffersRetry(t *testing.T) {
	h := newTestHarness(t, stubResources{usersErr: errors.New("connection refused")}, nil)
	h.settle(t, "viewer")

	_, body := h.do(t, http.MethodGet, "/columns", "viewer")
	assert.Contains(t, body, "users-error")
	assert.Contains(t, body, `hx-post="/users/reload"`)
	assert.NotContains(t, body, `class="column users"`)

	code, _ := h.do(t, http.MethodPost, "/users/reload", "viewer")
	assert.Equal(t, http.StatusOK, code)
}

func TestBrowserController_ViewersAreIndependent(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.settle(t, "first")
	h.settle(t, "second")

	_, _ = h.do(t, http.MethodPost, "/users/1/select", "first")
	h.settle(t, "first")

	_, body := h.do(t, http.MethodGet, "/columns", "second")
	assert.NotContains(t, body, "selected")
	assert.Equal(t, 0, strings.Count(body, `class="column albums"`))
}

func TestBrowserController_ClosedRegistryIsAServerError(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.registry.Close()

	code, _ := h.do(t, http.MethodGet, "/columns", "viewer")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestBrowserController_BrowserPageRendersLayoutAndColumns(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.settle(t, "viewer")

	_, _ = h.do(t, http.MethodPost, "/users/1/select", "viewer")
	h.settle(t, "viewer")

	code, body := h.do(t, http.MethodGet, "/", "viewer")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "<title>Album Browser</title>")
	assert.Contains(t, body, `<main class="browser">`)
	assert.Contains(t, body, `id="columns"`)
	assert.Contains(t, body, `class="item user selected" hx-post="/users/1/select"`)
	assert.Contains(t, body, "quidem molestiae enim")
	assert.NotContains(t, body, `class="column photos"`)
}

func TestBrowserController_ColumnsFragmentHasNoLayout(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.settle(t, "viewer")

	code, body := h.do(t, http.MethodGet, "/columns", "viewer")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, `id="columns"`)
	assert.NotContains(t, body, "<html")
	assert.NotContains(t, body, "<main")
}

func TestBrowserController_BrowserPageShowsErrorWhenRegistryClosed(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.registry.Close()

	_, body := h.do(t, http.MethodGet, "/", "viewer")
	assert.Contains(t, body, "An unexpected error occurred")
	assert.NotContains(t, body, `class="column users"`)
}

func TestBrowserController_RejectsMalformedIDs(t *testing.T) {
	h := newTestHarness(t, fixtures, nil)
	h.settle(t, "viewer")

	_, _ = h.do(t, http.MethodPost, "/users/1/select", "viewer")
	h.settle(t, "viewer")

	code, _ := h.do(t, http.MethodPost, "/users/abc/select", "viewer")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(t, http.MethodPost, "/albums/0/select", "viewer")
	assert.Equal(t, http.StatusBadRequest, code)

	controller, err := h.registry.Get("viewer")
	require.NoError(t, err)

	snapshot := controller.Snapshot()
	assert.Equal(t, uint(1), snapshot.SelectedUserID)
	assert.Equal(t, drilldown.NoSelection, snapshot.SelectedAlbumID)
	assert.Len(t, snapshot.Albums, 2)
}
