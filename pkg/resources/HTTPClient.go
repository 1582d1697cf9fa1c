package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/goccy/go-json"
)

type HTTPClientConfig struct {
	BaseURL    string
	HttpClient *http.Client
	Timeout    time.Duration
}

/*
HTTPClient reads users, albums, and photos from a REST source shaped like
jsonplaceholder: GET /users, GET /albums?userId=, and GET /photos?albumId=.
*/
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(config HTTPClientConfig) HTTPClient {
	client := config.HttpClient

	if client == nil {
		timeout := config.Timeout

		if timeout <= 0 {
			timeout = 30 * time.Second
		}

		client = &http.Client{Timeout: timeout}
	}

	return HTTPClient{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: client,
	}
}

func (c HTTPClient) GetUsers(ctx context.Context) ([]models.User, error) {
	result := []models.User{}

	if err := c.get(ctx, "/users", nil, &result); err != nil {
		return nil, fmt.Errorf("error fetching users: %w", err)
	}

	return result, nil
}

func (c HTTPClient) GetAlbumsByUserID(ctx context.Context, userID uint) ([]models.Album, error) {
	result := []models.Album{}
	query := url.Values{"userId": {fmt.Sprint(userID)}}

	if err := c.get(ctx, "/albums", query, &result); err != nil {
		return nil, fmt.Errorf("error fetching albums for user %d: %w", userID, err)
	}

	return result, nil
}

func (c HTTPClient) GetPhotosFromAlbumID(ctx context.Context, albumID uint) ([]models.Photo, error) {
	result := []models.Photo{}
	query := url.Values{"albumId": {fmt.Sprint(albumID)}}

	if err := c.get(ctx, "/photos", query, &result); err != nil {
		return nil, fmt.Errorf("error fetching photos for album %d: %w", albumID, err)
	}

	return result, nil
}

func (c HTTPClient) get(ctx context.Context, path string, query url.Values, dest any) error {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)

	u := c.baseURL + path

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil); err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if resp, err = c.httpClient.Do(req); err != nil {
		return fmt.Errorf("making request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return nil
}
