package memory

import (
	"context"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
)

type stagingStore struct {
	s *Store
}

func NewStagingStore(s *Store) cloture.StagingStore {
	return &stagingStore{s: s}
}

func (r *stagingStore) PurgeStaging(_ context.Context, periode time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.stagingDrafts, paie.NormalizePeriode(periode))
	return nil
}

func (r *stagingStore) PurgeDocuments(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.documents = 0
	return nil
}
