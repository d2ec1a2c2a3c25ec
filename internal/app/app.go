package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkglog"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkguid"
)

const serviceName = "goprofile"

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	configPath string
	config     pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager

	// resources
	traceShutdown func(context.Context) error

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	// closers run in registration order on Stop
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// New wires the application. An empty configPath falls back to
// /config/config.yaml, or ./config/config.yaml when LOCAL=true.
func New(configPath string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:        ctx,
		cancel:     cancel,
		configPath: configPath,
	}

	app.initConfig()
	pkglog.InitLogging(serviceName, app.config.GetString("log.level"))

	app.initLibraries()
	app.initTracing()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
