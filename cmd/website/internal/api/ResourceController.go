package api

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/adampresley/albumbrowser/pkg/services"
	"github.com/goccy/go-json"
)

type ResourceHandlers interface {
	Users(w http.ResponseWriter, r *http.Request)
	Albums(w http.ResponseWriter, r *http.Request)
	Photos(w http.ResponseWriter, r *http.Request)
}

type ResourceControllerConfig struct {
	AlbumService services.AlbumServicer
	PhotoService services.PhotoServicer
	UserService  services.UserServicer
}

/*
ResourceController serves the local database in the same shape as
jsonplaceholder, so one instance of the site can be another's resource
source.
*/
type ResourceController struct {
	albumService services.AlbumServicer
	photoService services.PhotoServicer
	userService  services.UserServicer
}

func NewResourceController(config ResourceControllerConfig) ResourceController {
	return ResourceController{
		albumService: config.AlbumService,
		photoService: config.PhotoService,
		userService:  config.UserService,
	}
}

/*
GET /api/users
*/
func (c ResourceController) Users(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		users []models.User
	)

	if users, err = c.userService.GetAll(r.Context()); err != nil {
		slog.Error("error getting users", "error", err)
		writeJson(w, http.StatusInternalServerError, errorResponse{Message: "error getting users"})
		return
	}

	writeJson(w, http.StatusOK, users)
}

/*
GET /api/albums?userId={userId}
*/
func (c ResourceController) Albums(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		albums []models.Album
	)

	userID := httphelpers.GetFromRequest[uint](r, "userId")

	if userID == 0 {
		albums, err = c.albumService.GetAll(r.Context())
	} else {
		albums, err = c.albumService.GetByUserID(r.Context(), userID)
	}

	if err != nil {
		slog.Error("error getting albums", "error", err, "userID", userID)
		writeJson(w, http.StatusInternalServerError, errorResponse{Message: "error getting albums"})
		return
	}

	writeJson(w, http.StatusOK, albums)
}

/*
GET /api/photos?albumId={albumId}
*/
func (c ResourceController) Photos(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		photos []models.Photo
	)

	albumID := httphelpers.GetFromRequest[uint](r, "albumId")

	if albumID == 0 {
		writeJson(w, http.StatusBadRequest, errorResponse{Message: "albumId is required"})
		return
	}

	if photos, err = c.photoService.GetByAlbumID(r.Context(), albumID); err != nil {
		slog.Error("error getting photos", "error", err, "albumID", albumID)
		writeJson(w, http.StatusInternalServerError, errorResponse{Message: "error getting photos"})
		return
	}

	writeJson(w, http.StatusOK, photos)
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJson(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(value); err != nil {
		slog.Error("error encoding JSON response", "error", err)
	}
}
