package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgtrace"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkguid"
)

//nolint:gochecknoglobals // read-only defaults for config.yaml
var defaultConfig = map[string]any{
	"tz":                               "UTC",
	"log.level":                        "info",
	"server.address.http":              ":8080",
	"modules.profile.enabled":          true,
	"modules.profile.max_uploads":      20,
	"modules.profile.max_rows":         0,
	"modules.profile.max_upload_bytes": 50 << 20,
	"charts.workers":                   4,
	"charts.max_categories":            30,
	"charts.pairplot_max_columns":      6,
	"archive.enabled":                  true,
	"archive.dir":                      "./data",
	"archive.node_id":                  -1,
	"event.workers":                    2,
	"event.max_retries":                3,
	"event.base_backoff":               "200ms",
	"tracing.endpoint":                 "",
}

func (a *App) initConfig() {
	path := a.configPath
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := pkgconfig.NewViper(path, defaultConfig)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()

	var (
		sf  *pkguid.Snowflake
		err error
	)
	if node := a.config.GetInt("archive.node_id"); node >= 0 {
		sf, err = pkguid.NewSnowflakeNode(node)
	} else {
		sf, err = pkguid.NewSnowflake()
	}
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = sf
}

func (a *App) initTracing() {
	shutdown, err := pkgtrace.Init(a.ctx, a.config.GetString("tracing.endpoint"), serviceName)
	if err != nil {
		slog.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}
	a.traceShutdown = shutdown
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{pkgrouter.HeaderCorrelationID, "Content-Disposition"},
		MaxAge:         600,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// initClosers registers the shared resources after the modules so they are
// released last.
func (a *App) initClosers() {
	a.addCloser("Tracing", a.traceShutdown)
	a.addCloser("Config", func(context.Context) error {
		return a.config.Close()
	})
}
