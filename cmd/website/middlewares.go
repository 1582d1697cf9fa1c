package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/albumbrowser/cmd/website/internal/viewmodels"
	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/google/uuid"
)

type viewerSessionStore interface {
	Get(r *http.Request) (*models.Viewer, error)
	Set(r *http.Request, value *models.Viewer) error
	Save(w http.ResponseWriter, r *http.Request) error
}

/*
newViewerMiddleware makes sure every request belongs to a viewer. A request
without one gets a new viewer id, saved to the session cookie before the
handler runs.
*/
func newViewerMiddleware(sessionService viewerSessionStore, excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err    error
				viewer *models.Viewer
			)

			path := r.URL.Path

			/*
			 * If this path is excluded, keep going.
			 */
			for _, excludedPath := range excludedPaths {
				if strings.HasPrefix(path, excludedPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if viewer, err = sessionService.Get(r); err != nil || viewer == nil || viewer.ID == "" {
				viewer = &models.Viewer{ID: uuid.NewString()}

				if err = sessionService.Set(r, viewer); err != nil {
					slog.Error("error setting viewer session", "error", err)
				}

				if err = sessionService.Save(w, r); err != nil {
					slog.Error("error saving session", "error", err)
				}

				slog.Debug("new viewer", "viewerID", viewer.ID)
			}

			ctx := viewmodels.WithViewer(r.Context(), viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
