package profile

import (
	"context"
	"errors"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goprofile/internal/pkg/pkguid"
	"github.com/shandysiswandi/goprofile/internal/profile/archive"
	"github.com/shandysiswandi/goprofile/internal/profile/chart"
	"github.com/shandysiswandi/goprofile/internal/profile/event"
	"github.com/shandysiswandi/goprofile/internal/profile/inbound"
	"github.com/shandysiswandi/goprofile/internal/profile/loader"
	"github.com/shandysiswandi/goprofile/internal/profile/profiler"
	"github.com/shandysiswandi/goprofile/internal/profile/store"
	"github.com/shandysiswandi/goprofile/internal/profile/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	NumberID  pkguid.NumberID
}

type archiver interface {
	event.Handler
	usecase.History
	Close() error
}

func New(dep Dependency) (func(context.Context) error, error) {
	cfg := dep.Config

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}
	if dep.Context == nil {
		dep.Context = context.Background()
	}

	var reports archiver = archive.Noop{}
	if cfg.GetBool("archive.enabled") {
		ids := dep.NumberID
		if ids == nil {
			sf, err := pkguid.NewSnowflake()
			if err != nil {
				return nil, err
			}
			ids = sf
		}

		db, err := archive.Open(dep.Context, cfg.GetString("archive.dir"), ids)
		if err != nil {
			return nil, err
		}
		reports = db
	}

	bus := event.NewBus(512)
	consumer := event.NewConsumer(bus, reports, event.ConsumerConfig{
		Workers:     int(cfg.GetInt("event.workers")),
		MaxRetries:  int(cfg.GetInt("event.max_retries")),
		BaseBackoff: cfg.GetDuration("event.base_backoff"),
	})
	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Store:    store.NewInMemoryStore(int(cfg.GetInt("modules.profile.max_uploads"))),
		Loader:   loader.New(loader.Options{MaxRows: int(cfg.GetInt("modules.profile.max_rows"))}),
		Profiler: profiler.New(),
		Renderer: chart.New(chart.Options{
			Workers:            int(cfg.GetInt("charts.workers")),
			MaxCategories:      int(cfg.GetInt("charts.max_categories")),
			PairPlotMaxColumns: int(cfg.GetInt("charts.pairplot_max_columns")),
		}),
		Events:  bus,
		History: reports,
		Runner:  dep.Goroutine,
		ID:      dep.ID,
		RootCtx: dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, cfg.GetInt("modules.profile.max_upload_bytes"))

	return func(ctx context.Context) error {
		return errors.Join(consumer.Stop(ctx), reports.Close())
	}, nil
}
