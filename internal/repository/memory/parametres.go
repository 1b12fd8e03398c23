package memory

import (
	"context"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
)

type parametresRepository struct {
	s *Store
}

func NewParametresRepository(s *Store) parametres.ParametresRepository {
	return &parametresRepository{s: s}
}

func (r *parametresRepository) Get(_ context.Context) (parametres.GlobalParameters, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.params == nil {
		return parametres.GlobalParameters{}, parametres.ErrParametresNotFound
	}
	return *r.s.params, nil
}

func (r *parametresRepository) Update(_ context.Context, p parametres.GlobalParameters) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.UpdatedAt = time.Now().UTC()
	r.s.params = &p
	return nil
}
