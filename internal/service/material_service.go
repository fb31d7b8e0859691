package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nurpe/ops-admin/internal/model"
)

type MaterialBackend interface {
	ListMaterials(ctx context.Context, availableOnly bool) ([]model.Material, error)
}

// MaterialService lists materials and remembers the last stock figures it
// saw. Those figures feed the advisory stock check on ticket items; the
// backend performs the authoritative check.
type MaterialService struct {
	backend MaterialBackend
	log     zerolog.Logger

	mu    sync.RWMutex
	known map[int64]model.Material
}

func NewMaterialService(backend MaterialBackend, log zerolog.Logger) *MaterialService {
	return &MaterialService{
		backend: backend,
		log:     log.With().Str("component", "materials").Logger(),
		known:   make(map[int64]model.Material),
	}
}

func (s *MaterialService) List(ctx context.Context, availableOnly bool) ([]model.Material, error) {
	materials, err := s.backend.ListMaterials(ctx, availableOnly)
	if err != nil {
		s.log.Warn().Err(err).Msg("list materials failed")
		return nil, err
	}
	s.remember(materials)
	return materials, nil
}

// Material returns the last known figures for id, fetching the catalog only
// when the material has not been seen yet.
func (s *MaterialService) Material(ctx context.Context, id int64) (model.Material, error) {
	s.mu.RLock()
	m, ok := s.known[id]
	s.mu.RUnlock()
	if ok {
		return m, nil
	}

	if _, err := s.List(ctx, false); err != nil {
		return model.Material{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok = s.known[id]
	if !ok {
		return model.Material{}, fmt.Errorf("%w: material %d", ErrNotFound, id)
	}
	return m, nil
}

func (s *MaterialService) remember(materials []model.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range materials {
		s.known[m.ID] = m
	}
}

// Forget drops remembered figures for id, so the next check refetches them.
func (s *MaterialService) Forget(id int64) {
	s.mu.Lock()
	delete(s.known, id)
	s.mu.Unlock()
}
