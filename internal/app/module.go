package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/goprofile/internal/profile"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.profile.enabled") {
		closer, err := profile.New(profile.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			NumberID:  a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module profile", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			a.addCloser("Profile", closer)
		}
	}
}
