package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// InMemoryStore keeps the most recent uploads in memory. Once capacity is
// reached the oldest upload is discarded to make room for a new one.
type InMemoryStore struct {
	mu       sync.RWMutex
	uploads  map[string]*uploadRecord
	order    []string
	capacity int
}

type uploadRecord struct {
	mu     sync.RWMutex
	meta   entity.UploadMeta
	result *entity.Result
}

// NewInMemoryStore returns a store holding at most capacity uploads; a
// non-positive capacity means unbounded.
func NewInMemoryStore(capacity int) *InMemoryStore {
	return &InMemoryStore{
		uploads:  make(map[string]*uploadRecord),
		capacity: capacity,
	}
}

func (s *InMemoryStore) CreateUpload(ctx context.Context, meta entity.UploadMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.uploads[meta.ID]; exists {
		return pkgerror.NewBusiness("upload already exists", pkgerror.CodeConflict)
	}

	for s.capacity > 0 && len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.uploads, oldest)
		slog.InfoContext(ctx, "upload evicted", "upload_id", oldest)
	}

	s.uploads[meta.ID] = &uploadRecord{
		meta: meta,
	}
	s.order = append(s.order, meta.ID)

	return nil
}

func (s *InMemoryStore) UpdateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) error {
	rec, err := s.get(uploadID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.meta)

	return nil
}

func (s *InMemoryStore) SaveResult(ctx context.Context, uploadID string, result *entity.Result) error {
	rec, err := s.get(uploadID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.result = result

	return nil
}

func (s *InMemoryStore) GetMeta(ctx context.Context, uploadID string) (entity.UploadMeta, error) {
	rec, err := s.get(uploadID)
	if err != nil {
		return entity.UploadMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.meta, nil
}

func (s *InMemoryStore) GetResult(ctx context.Context, uploadID string) (*entity.Result, entity.UploadMeta, error) {
	rec, err := s.get(uploadID)
	if err != nil {
		return nil, entity.UploadMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.result, rec.meta, nil
}

// Len returns the number of uploads currently held.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.uploads)
}

func (s *InMemoryStore) get(uploadID string) (*uploadRecord, error) {
	s.mu.RLock()
	rec, ok := s.uploads[uploadID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
