package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/adampresley/albumbrowser/cmd/importer/internal/importer"
	"github.com/adampresley/albumbrowser/pkg/logging"
	"github.com/adampresley/albumbrowser/pkg/migrations"
	"github.com/adampresley/albumbrowser/pkg/resources"
	"github.com/adampresley/albumbrowser/pkg/services"
	"github.com/adampresley/configinator"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	Version string = "development"
	appName string = "albumbrowser-importer"
)

type Config struct {
	DSN            string `flag:"dsn" env:"DSN" default:"file:./data/albumbrowser.db?_pragma=busy_timeout(5000)" description:"Data source name"`
	LogLevel       string `flag:"loglevel" env:"LOG_LEVEL" default:"info" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxWorkers     int    `flag:"workers" env:"MAX_IMPORT_WORKERS" default:"4" description:"Maximum number of users imported at once"`
	SourceURL      string `flag:"source" env:"SOURCE_URL" default:"https://jsonplaceholder.typicode.com" description:"Base URL of the jsonplaceholder-style REST API to import from"`
	TimeoutSeconds int    `flag:"timeout" env:"TIMEOUT_SECONDS" default:"30" description:"Seconds before a single request to the source gives up"`
}

func main() {
	var (
		err     error
		db      *sqlz.DB
		summary importer.Summary
	)

	config := Config{}
	configinator.Behold(&config)

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.ParseLevel(config.LogLevel),
	})))

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("source", config.SourceURL),
		slog.Int("maxWorkers", config.MaxWorkers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	if db, err = sqlz.Connect("sqlite", config.DSN); err != nil {
		slog.Error("error connecting to database", "error", err)
		os.Exit(1)
	}

	if err = migrations.Migrate(db); err != nil {
		slog.Error("error migrating database", "error", err)
		os.Exit(1)
	}

	i := importer.NewImporter(importer.ImporterConfig{
		AlbumService: services.NewAlbumService(services.AlbumServiceConfig{DB: db}),
		MaxWorkers:   config.MaxWorkers,
		PhotoService: services.NewPhotoService(services.PhotoServiceConfig{DB: db}),
		Source: resources.NewHTTPClient(resources.HTTPClientConfig{
			BaseURL: config.SourceURL,
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		}),
		UserService: services.NewUserService(services.UserServiceConfig{DB: db}),
	})

	start := time.Now()
	summary, err = i.Run(ctx)

	slog.Info("import finished",
		"numUsers", summary.Users,
		"numAlbums", summary.Albums,
		"numPhotos", summary.Photos,
		"elapsed", time.Since(start).String(),
	)

	if err != nil {
		slog.Error("import finished with errors", "error", err)
		os.Exit(1)
	}
}
