package memory

import (
	"context"
	"sort"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/engagement"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
)

type engagementRepository struct {
	s *Store
}

func NewEngagementRepository(s *Store) engagement.EngagementRepository {
	return &engagementRepository{s: s}
}

func (r *engagementRepository) ListActiveByEmployee(_ context.Context, employeeID int64) ([]engagement.Engagement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []engagement.Engagement
	for _, e := range r.s.engagements {
		if e.EmployeeID == employeeID && e.Actif {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *engagementRepository) Update(_ context.Context, e engagement.Engagement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.engagements[e.ID]; !ok {
		return engagement.ErrEngagementNotFound
	}
	r.s.engagements[e.ID] = e
	return nil
}

// AppendHistory ignores duplicate (employee, periode, engagement) rows
// so a retried closing does not double-snapshot.
func (r *engagementRepository) AppendHistory(_ context.Context, h engagement.History) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h.Periode = paie.NormalizePeriode(h.Periode)
	for _, existing := range r.s.history {
		if existing.EmployeeID == h.EmployeeID &&
			existing.EngagementID == h.EngagementID &&
			existing.Periode.Equal(h.Periode) {
			return nil
		}
	}
	r.s.history = append(r.s.history, h)
	return nil
}

func (r *engagementRepository) ListHistory(_ context.Context, employeeID int64, periode time.Time) ([]engagement.History, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	periode = paie.NormalizePeriode(periode)
	var result []engagement.History
	for _, h := range r.s.history {
		if h.EmployeeID == employeeID && h.Periode.Equal(periode) {
			result = append(result, h)
		}
	}
	return result, nil
}
