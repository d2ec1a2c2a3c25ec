package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

func TestInMemoryStore_CreateUpload_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)
	meta := entity.UploadMeta{
		ID:       "upload-1",
		FileName: "people.csv",
		Status:   entity.UploadStatusQueued,
	}

	if err := store.CreateUpload(ctx, meta); err != nil {
		t.Fatalf("CreateUpload() err = %v", err)
	}

	err := store.CreateUpload(ctx, meta)
	if err == nil {
		t.Fatal("CreateUpload() expected error, got nil")
	}

	var perr *pkgerror.Error
	if !errors.As(err, &perr) {
		t.Fatalf("CreateUpload() expected pkgerror.Error, got %T", err)
	}

	if perr.Code() != pkgerror.CodeConflict {
		t.Fatalf("CreateUpload() error code = %v, want %v", perr.Code(), pkgerror.CodeConflict)
	}
}

func TestInMemoryStore_UpdateMeta_And_GetResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)
	meta := entity.UploadMeta{
		ID:        "upload-2",
		Status:    entity.UploadStatusQueued,
		StartedAt: 123,
	}

	if err := store.CreateUpload(ctx, meta); err != nil {
		t.Fatalf("CreateUpload() err = %v", err)
	}

	res, gotMeta, err := store.GetResult(ctx, meta.ID)
	if err != nil {
		t.Fatalf("GetResult() err = %v", err)
	}
	if res != nil || gotMeta.Status != entity.UploadStatusQueued {
		t.Fatalf("GetResult() = %v, %+v; want no result yet", res, gotMeta)
	}

	err = store.UpdateMeta(ctx, meta.ID, func(m *entity.UploadMeta) {
		m.Status = entity.UploadStatusDone
		m.EndedAt = 456
		m.Rows = 3
	})
	if err != nil {
		t.Fatalf("UpdateMeta() err = %v", err)
	}

	want := &entity.Result{ReportJSON: []byte(`{}`), Dataset: &entity.Dataset{NumRows: 3}}
	if err := store.SaveResult(ctx, meta.ID, want); err != nil {
		t.Fatalf("SaveResult() err = %v", err)
	}

	res, gotMeta, err = store.GetResult(ctx, meta.ID)
	if err != nil {
		t.Fatalf("GetResult() err = %v", err)
	}
	if res != want {
		t.Fatalf("GetResult() result = %p, want %p", res, want)
	}
	if gotMeta.Status != entity.UploadStatusDone || gotMeta.EndedAt != 456 || gotMeta.Rows != 3 {
		t.Fatalf("GetResult() meta = %+v", gotMeta)
	}
}

func TestInMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)

	if _, err := store.GetMeta(ctx, "missing"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetMeta() err = %v, want ErrNotFound", err)
	}
	if _, _, err := store.GetResult(ctx, "missing"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetResult() err = %v, want ErrNotFound", err)
	}
	if err := store.UpdateMeta(ctx, "missing", func(*entity.UploadMeta) {}); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("UpdateMeta() err = %v, want ErrNotFound", err)
	}
	if err := store.SaveResult(ctx, "missing", &entity.Result{}); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("SaveResult() err = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_EvictsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(2)

	for i := 1; i <= 3; i++ {
		if err := store.CreateUpload(ctx, entity.UploadMeta{ID: fmt.Sprintf("upload-%d", i)}); err != nil {
			t.Fatalf("CreateUpload(%d) err = %v", i, err)
		}
	}

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if _, err := store.GetMeta(ctx, "upload-1"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("expected upload-1 to be evicted, err = %v", err)
	}
	for _, id := range []string{"upload-2", "upload-3"} {
		if _, err := store.GetMeta(ctx, id); err != nil {
			t.Fatalf("GetMeta(%s) err = %v", id, err)
		}
	}
}

func TestInMemoryStore_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)
	if err := store.CreateUpload(ctx, entity.UploadMeta{ID: "upload-c"}); err != nil {
		t.Fatalf("CreateUpload() err = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.UpdateMeta(ctx, "upload-c", func(m *entity.UploadMeta) { m.Rows++ })
			_, _ = store.GetMeta(ctx, "upload-c")
		}()
	}
	wg.Wait()

	meta, err := store.GetMeta(ctx, "upload-c")
	if err != nil {
		t.Fatalf("GetMeta() err = %v", err)
	}
	if meta.Rows != 50 {
		t.Fatalf("Rows = %d, want 50", meta.Rows)
	}
}
