package viewmodels

import (
	"context"
	"net/http"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/albumbrowser/pkg/models"
)

type contextKey string

const viewerContextKey contextKey = "viewer"

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
}

func WithViewer(ctx context.Context, viewer *models.Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, viewer)
}

func GetViewerFromContext(r *http.Request) *models.Viewer {
	if result, ok := r.Context().Value(viewerContextKey).(*models.Viewer); ok {
		return result
	}

	return &models.Viewer{}
}
