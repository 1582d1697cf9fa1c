package browser

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/albumbrowser/cmd/website/internal/viewmodels"
	"github.com/adampresley/albumbrowser/pkg/drilldown"
	"github.com/adampresley/albumbrowser/pkg/models"
)

type BrowserHandlers interface {
	BrowserPage(w http.ResponseWriter, r *http.Request)
	Columns(w http.ResponseWriter, r *http.Request)
	SelectUser(w http.ResponseWriter, r *http.Request)
	SelectAlbum(w http.ResponseWriter, r *http.Request)
	ReloadUsers(w http.ResponseWriter, r *http.Request)
}

type ViewRegistry interface {
	Get(viewerID string) (*drilldown.Controller, error)
}

// ThumbnailResolver picks the URL a photo's thumbnail is served from.
type ThumbnailResolver interface {
	ThumbnailURL(photo models.Photo) string
}

type BrowserControllerConfig struct {
	Registry          ViewRegistry
	Renderer          rendering.TemplateRenderer
	ThumbnailResolver ThumbnailResolver
}

type BrowserController struct {
	registry          ViewRegistry
	renderer          rendering.TemplateRenderer
	thumbnailResolver ThumbnailResolver
}

func NewBrowserController(config BrowserControllerConfig) BrowserController {
	return BrowserController{
		registry:          config.Registry,
		renderer:          config.Renderer,
		thumbnailResolver: config.ThumbnailResolver,
	}
}

/*
GET /
*/
func (c BrowserController) BrowserPage(w http.ResponseWriter, r *http.Request) {
	var (
		err        error
		controller *drilldown.Controller
	)

	pageName := "pages/browser"
	viewer := viewmodels.GetViewerFromContext(r)

	viewData := viewmodels.BrowserPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:             httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{},
		},
	}

	if controller, err = c.registry.Get(viewer.ID); err != nil {
		slog.Error("error getting drill-down view", "error", err, "viewerID", viewer.ID)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please try again."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Columns = c.newColumns(controller.Snapshot())
	c.renderer.Render(pageName, viewData, w)
}

/*
GET /columns
*/
func (c BrowserController) Columns(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, "columns", func(controller *drilldown.Controller) error {
		return nil
	})
}

/*
POST /users/{id}/select
*/
func (c BrowserController) SelectUser(w http.ResponseWriter, r *http.Request) {
	userID := httphelpers.GetFromRequest[uint](r, "id")

	if userID == drilldown.NoSelection {
		httphelpers.TextBadRequest(w, "A valid user id is required")
		return
	}

	c.dispatch(w, r, "selectUser", func(controller *drilldown.Controller) error {
		return controller.SelectUser(userID)
	})
}

/*
POST /albums/{id}/select
*/
func (c BrowserController) SelectAlbum(w http.ResponseWriter, r *http.Request) {
	albumID := httphelpers.GetFromRequest[uint](r, "id")

	if albumID == drilldown.NoSelection {
		httphelpers.TextBadRequest(w, "A valid album id is required")
		return
	}

	c.dispatch(w, r, "selectAlbum", func(controller *drilldown.Controller) error {
		return controller.SelectAlbum(albumID)
	})
}

/*
POST /users/reload
*/
func (c BrowserController) ReloadUsers(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, "reloadUsers", func(controller *drilldown.Controller) error {
		return controller.ReloadUsers()
	})
}

/*
dispatch runs one intent against the viewer's controller and answers with the
freshly rendered columns fragment.
*/
func (c BrowserController) dispatch(w http.ResponseWriter, r *http.Request, intent string, fn func(controller *drilldown.Controller) error) {
	var (
		err        error
		controller *drilldown.Controller
	)

	viewer := viewmodels.GetViewerFromContext(r)

	if controller, err = c.registry.Get(viewer.ID); err != nil {
		slog.Error("error getting drill-down view", "error", err, "viewerID", viewer.ID, "intent", intent)
		httphelpers.TextInternalServerError(w, "Unable to load this view")
		return
	}

	if err = fn(controller); err != nil {
		slog.Error("error running drill-down intent", "error", err, "viewerID", viewer.ID, "intent", intent)
		httphelpers.TextInternalServerError(w, "Unable to update this view")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err = c.renderer.Render("columns", c.newColumns(controller.Snapshot()), w); err != nil {
		slog.Error("error rendering columns", "error", err, "viewerID", viewer.ID, "intent", intent)
		httphelpers.TextInternalServerError(w, "Unable to render this view")
	}
}

func (c BrowserController) newColumns(snapshot drilldown.Snapshot) viewmodels.Columns {
	result := viewmodels.Columns{
		SelectedUserID:  snapshot.SelectedUserID,
		SelectedAlbumID: snapshot.SelectedAlbumID,
		Loading:         snapshot.IsLoading(),
		Version:         snapshot.Version,
	}

	result.Users = slices.Map(snapshot.Users, func(input drilldown.UserItem, index int) viewmodels.UserRow {
		return viewmodels.UserRow{
			ID:       input.ID,
			Name:     input.Name,
			Selected: input.Selected,
		}
	})

	result.Albums = slices.Map(snapshot.Albums, func(input drilldown.AlbumItem, index int) viewmodels.AlbumRow {
		return viewmodels.AlbumRow{
			ID:       input.ID,
			Title:    input.Title,
			Selected: input.Selected,
		}
	})

	result.Photos = slices.Map(snapshot.Photos, func(input models.Photo, index int) viewmodels.PhotoRow {
		return viewmodels.PhotoRow{
			ID:           input.ID,
			Title:        input.Title,
			URL:          input.URL,
			ThumbnailURL: c.thumbnailURL(input),
		}
	})

	if snapshot.UsersError != nil {
		result.UsersError = "We couldn't load the list of users."
	}

	if snapshot.AlbumsError != nil {
		result.AlbumsError = "We couldn't load this user's albums."
	}

	if snapshot.PhotosError != nil {
		result.PhotosError = "We couldn't load the photos in this album."
	}

	return result
}

func (c BrowserController) thumbnailURL(photo models.Photo) string {
	if c.thumbnailResolver == nil {
		return photo.ThumbnailURL
	}

	return c.thumbnailResolver.ThumbnailURL(photo)
}
