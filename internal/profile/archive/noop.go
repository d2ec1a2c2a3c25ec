package archive

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// Noop is used when archiving is disabled. It only logs handled events.
type Noop struct{}

func (Noop) Handle(ctx context.Context, ev entity.ProfiledEvent) error {
	slog.InfoContext(ctx, "archive disabled, report not stored", "event_id", ev.EventID, "upload_id", ev.UploadID)
	return nil
}

func (Noop) List(context.Context, int) ([]entity.ArchivedReport, error) {
	return []entity.ArchivedReport{}, nil
}

func (Noop) Get(context.Context, int64) (entity.ArchivedReport, error) {
	return entity.ArchivedReport{}, pkgerror.ErrNotFound
}

func (Noop) Close() error {
	return nil
}
