package main

import (
	"context"
	"embed"
	"encoding/gob"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/albumbrowser/cmd/website/internal/api"
	"github.com/adampresley/albumbrowser/cmd/website/internal/browser"
	"github.com/adampresley/albumbrowser/cmd/website/internal/configuration"
	"github.com/adampresley/albumbrowser/cmd/website/internal/thumbnails"
	"github.com/adampresley/albumbrowser/pkg/drilldown"
	"github.com/adampresley/albumbrowser/pkg/migrations"
	"github.com/adampresley/albumbrowser/pkg/models"
	"github.com/adampresley/albumbrowser/pkg/resources"
	"github.com/adampresley/albumbrowser/pkg/services"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	Version string = "development"
	appName string = "albumbrowser"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	albumService            services.AlbumServicer
	db                      *sqlz.DB
	photoService            services.PhotoServicer
	registry                *drilldown.Registry
	renderer                rendering.TemplateRenderer
	resourceClient          drilldown.Resources
	sessionService          sessions.Session[*models.Viewer]
	thumbnailCreatorService thumbnails.ThumbnailCreator
	thumbnailResolver       browser.ThumbnailResolver
	userService             services.UserServicer

	/* Controllers */
	browserController  browser.BrowserHandlers
	resourceController api.ResourceHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("resourceSource", config.ResourceSource),
		slog.Bool("thumbnailCacheEnabled", config.ThumbnailCacheEnabled),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	if db, err = sqlz.Connect("sqlite", config.DSN); err != nil {
		panic(err)
	}

	if err = migrations.Migrate(db); err != nil {
		panic(err)
	}

	gob.Register(&models.Viewer{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.Viewer](cookieStore, "albumbrowserviewers", "viewer")

	userService = services.NewUserService(services.UserServiceConfig{
		DB: db,
	})

	albumService = services.NewAlbumService(services.AlbumServiceConfig{
		DB: db,
	})

	photoService = services.NewPhotoService(services.PhotoServiceConfig{
		DB: db,
	})

	if config.UsesDatabaseResources() {
		resourceClient = resources.NewServiceClient(resources.ServiceClientConfig{
			AlbumService: albumService,
			PhotoService: photoService,
			UserService:  userService,
		})
	} else {
		resourceClient = resources.NewHTTPClient(resources.HTTPClientConfig{
			BaseURL: config.ResourceSource,
			Timeout: config.FetchTimeout(),
		})
	}

	registry = drilldown.NewRegistry(drilldown.RegistryConfig{
		Resources:    resourceClient,
		FetchTimeout: config.FetchTimeout(),
		Logger:       slog.Default(),
	})

	if config.ThumbnailCacheEnabled {
		setupThumbnailCache(shutdownCtx)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	/*
	 * Setup controllers
	 */
	browserController = browser.NewBrowserController(browser.BrowserControllerConfig{
		Registry:          registry,
		Renderer:          renderer,
		ThumbnailResolver: thumbnailResolver,
	})

	resourceController = api.NewResourceController(api.ResourceControllerConfig{
		AlbumService: albumService,
		PhotoService: photoService,
		UserService:  userService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	viewerMiddleware := newViewerMiddleware(
		sessionService,
		[]string{
			"/static",
			"/heartbeat",
			"/api",
		},
	)

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /api/users", HandlerFunc: resourceController.Users},
		{Path: "GET /api/albums", HandlerFunc: resourceController.Albums},
		{Path: "GET /api/photos", HandlerFunc: resourceController.Photos},
		{Path: "GET /", HandlerFunc: browserController.BrowserPage, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
		{Path: "GET /columns", HandlerFunc: browserController.Columns, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
		{Path: "POST /users/reload", HandlerFunc: browserController.ReloadUsers, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
		{Path: "POST /users/{id}/select", HandlerFunc: browserController.SelectUser, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
		{Path: "POST /albums/{id}/select", HandlerFunc: browserController.SelectAlbum, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start disposing drill-down views nobody is looking at
	 */
	registry.StartSweeper(config.ViewerSweepInterval(), config.ViewerIdleTimeout())
	defer registry.Close()

	/*
	 * Start the thumbnail cache job
	 */
	if thumbnailCreatorService != nil {
		setupThumbnailCreator(quit)
	}

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupThumbnailCache(shutdownCtx context.Context) {
	var (
		err      error
		s3Client s3.S3Client
	)

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	if s3Client, err = s3.NewClient(awsConfig); err != nil {
		panic(err)
	}

	thumbnailResolver = thumbnails.NewURLResolver(thumbnails.URLResolverConfig{
		AwsBucket: config.AwsBucket,
		S3Client:  s3Client,
	})

	thumbnailCreatorService = thumbnails.NewThumbnailCreatorService(thumbnails.ThumbnailCreatorConfig{
		AlbumService:    albumService,
		AwsBucket:       config.AwsBucket,
		AwsRegion:       config.AwsRegion,
		MaxWorkers:      config.MaxThumbnailWorkers,
		PhotoService:    photoService,
		S3Client:        s3Client,
		ShutdownCtx:     shutdownCtx,
		ThumbnailFolder: config.ThumbnailFolder,
	})
}

func setupThumbnailCreator(quit chan os.Signal) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		running := true

		runner := func() {
			defer func() {
				running = false
			}()

			thumbnailCreatorService.CreateThumbnails()
		}

		runner()

		for {
			select {
			case <-quit:
				return

			case <-ticker.C:
				if running {
					slog.Info("thumbnail creator already running. skipping...")
					continue
				}

				runner()
			}
		}
	}()
}
