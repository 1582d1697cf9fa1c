package configuration

import (
	"time"

	"github.com/adampresley/configinator"
)

const (
	ResourceSourceDatabase = "database"

	DefaultViewerIdleTimeout = 30 * time.Minute
)

type Config struct {
	AwsEndpointUrl        string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion             string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId        string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey    string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket             string `flag:"awsbucket" env:"AWS_BUCKET" default:"albumbrowser" description:"S3 bucket for cached thumbnails"`
	CookieSecret          string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DSN                   string `flag:"dsn" env:"DSN" default:"file:./data/albumbrowser.db?_pragma=busy_timeout(5000)" description:"Data source name"`
	FetchTimeoutSeconds   int    `flag:"fetchtimeout" env:"FETCH_TIMEOUT_SECONDS" default:"15" description:"Seconds before a user, album, or photo fetch gives up"`
	Host                  string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogLevel              string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxThumbnailWorkers   int    `flag:"mtw" env:"MAX_THUMBNAIL_WORKERS" default:"10" description:"Maximum number of concurrent thumbnail workers"`
	ResourceSource        string `flag:"resources" env:"RESOURCE_SOURCE" default:"database" description:"Where users, albums, and photos come from. 'database', or the base URL of a jsonplaceholder-style REST API"`
	ThumbnailCacheEnabled bool   `flag:"thumbnails" env:"THUMBNAIL_CACHE_ENABLED" default:"false" description:"Resize photos into S3 and serve thumbnails from there"`
	ThumbnailFolder       string `flag:"tf" env:"THUMBNAIL_FOLDER" default:"thumbnails" description:"S3 folder for cached photo thumbnails"`
	ViewerIdleMinutes     int    `flag:"vim" env:"VIEWER_IDLE_MINUTES" default:"30" description:"Minutes before an idle viewer's drill-down state is discarded"`
	ViewerSweepSeconds    int    `flag:"vss" env:"VIEWER_SWEEP_SECONDS" default:"60" description:"Seconds between checks for idle viewers"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c Config) ViewerIdleTimeout() time.Duration {
	if c.ViewerIdleMinutes <= 0 {
		return DefaultViewerIdleTimeout
	}

	return time.Duration(c.ViewerIdleMinutes) * time.Minute
}

func (c Config) ViewerSweepInterval() time.Duration {
	if c.ViewerSweepSeconds <= 0 {
		return time.Minute
	}

	return time.Duration(c.ViewerSweepSeconds) * time.Second
}

func (c Config) UsesDatabaseResources() bool {
	return c.ResourceSource == "" || c.ResourceSource == ResourceSourceDatabase
}
