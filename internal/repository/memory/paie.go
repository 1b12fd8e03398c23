package memory

import (
	"context"
	"sort"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
)

// ========== MOTIFS ==========

type motifRepository struct {
	s *Store
}

func NewMotifRepository(s *Store) paie.MotifRepository {
	return &motifRepository{s: s}
}

func (r *motifRepository) GetByID(_ context.Context, id int64) (paie.Motif, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.motifs[id]
	if !ok {
		return paie.Motif{}, paie.ErrMotifNotFound
	}
	return m, nil
}

func (r *motifRepository) GetParDefaut(_ context.Context) (paie.Motif, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.motifs {
		if m.ParDefaut {
			return m, nil
		}
	}
	return paie.Motif{}, paie.ErrMotifNotFound
}

func (r *motifRepository) List(_ context.Context) ([]paie.Motif, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]paie.Motif, 0, len(r.s.motifs))
	for _, m := range r.s.motifs {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ========== RUBRIQUES ==========

type rubriqueRepository struct {
	s *Store
}

func NewRubriqueRepository(s *Store) paie.RubriqueRepository {
	return &rubriqueRepository{s: s}
}

func (r *rubriqueRepository) GetByID(_ context.Context, id int64) (paie.Rubrique, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rub, ok := r.s.rubriques[id]
	if !ok {
		return paie.Rubrique{}, paie.ErrRubriqueNotFound
	}
	return rub, nil
}

func (r *rubriqueRepository) Upsert(_ context.Context, rubrique paie.Rubrique) (paie.Rubrique, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.rubriques[rubrique.ID] = rubrique
	return rubrique, nil
}

func (r *rubriqueRepository) List(_ context.Context) ([]paie.Rubrique, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]paie.Rubrique, 0, len(r.s.rubriques))
	for _, rub := range r.s.rubriques {
		result = append(result, rub)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ========== RUBRIQUES PAIE ==========

type rubriquePaieRepository struct {
	s *Store
}

func NewRubriquePaieRepository(s *Store) paie.RubriquePaieRepository {
	return &rubriquePaieRepository{s: s}
}

func (r *rubriquePaieRepository) Get(_ context.Context, key paie.RubriquePaieKey) (paie.RubriquePaie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key.Periode = paie.NormalizePeriode(key.Periode)
	line, ok := r.s.rubriquesPaie[key]
	if !ok {
		return paie.RubriquePaie{}, paie.ErrRubriquePaieNotFound
	}
	return line, nil
}

func (r *rubriquePaieRepository) Upsert(_ context.Context, line paie.RubriquePaie) (paie.RubriquePaie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	line.Periode = paie.NormalizePeriode(line.Periode)
	r.s.rubriquesPaie[line.Key()] = line
	return line, nil
}

func (r *rubriquePaieRepository) ListRange(_ context.Context, employeeID, motifID int64, du, au time.Time) ([]paie.RubriquePaie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	du = paie.NormalizePeriode(du)
	au = paie.NormalizePeriode(au)

	var result []paie.RubriquePaie
	for _, line := range r.s.rubriquesPaie {
		if line.EmployeeID != employeeID || line.MotifID != motifID {
			continue
		}
		if line.Periode.Before(du) || line.Periode.After(au) {
			continue
		}
		result = append(result, line)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RubriqueID < result[j].RubriqueID })
	return result, nil
}

func (r *rubriquePaieRepository) ListFixes(_ context.Context, employeeID int64, periode time.Time) ([]paie.RubriquePaie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	periode = paie.NormalizePeriode(periode)

	var result []paie.RubriquePaie
	for _, line := range r.s.rubriquesPaie {
		if line.EmployeeID == employeeID && line.Fixe && line.Periode.Equal(periode) {
			result = append(result, line)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RubriqueID < result[j].RubriqueID })
	return result, nil
}

func (r *rubriquePaieRepository) DeletePeriode(_ context.Context, periode time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	periode = paie.NormalizePeriode(periode)
	for key := range r.s.rubriquesPaie {
		if key.Periode.Equal(periode) {
			delete(r.s.rubriquesPaie, key)
		}
	}
	return nil
}

// ========== NJT ==========

type njtRepository struct {
	s *Store
}

func NewNjtRepository(s *Store) paie.NjtRepository {
	return &njtRepository{s: s}
}

func (r *njtRepository) Get(_ context.Context, key paie.NjtKey) (paie.NjtRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key.Periode = paie.NormalizePeriode(key.Periode)
	record, ok := r.s.njt[key]
	if !ok {
		return paie.NjtRecord{}, paie.ErrNjtNotFound
	}
	return record, nil
}

func (r *njtRepository) Upsert(_ context.Context, record paie.NjtRecord) (paie.NjtRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	record.Periode = paie.NormalizePeriode(record.Periode)
	r.s.njt[record.Key()] = record
	return record, nil
}

func (r *njtRepository) DeletePeriode(_ context.Context, periode time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	periode = paie.NormalizePeriode(periode)
	for key := range r.s.njt {
		if key.Periode.Equal(periode) {
			delete(r.s.njt, key)
		}
	}
	return nil
}

// ========== PAIES ==========

type paieRepository struct {
	s *Store
}

func NewPaieRepository(s *Store) paie.PaieRepository {
	return &paieRepository{s: s}
}

func (r *paieRepository) Get(_ context.Context, key paie.NjtKey) (paie.Paie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key.Periode = paie.NormalizePeriode(key.Periode)
	p, ok := r.s.paies[key]
	if !ok {
		return paie.Paie{}, paie.ErrPaieNotFound
	}
	return p, nil
}

// Replace is delete-then-insert on the key, the documented idempotent
// recompute semantics.
func (r *paieRepository) Replace(_ context.Context, p paie.Paie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.Periode = paie.NormalizePeriode(p.Periode)
	key := p.Key()
	delete(r.s.paies, key)
	r.s.paies[key] = p
	return nil
}

func (r *paieRepository) DeletePeriode(_ context.Context, periode time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	periode = paie.NormalizePeriode(periode)
	for key := range r.s.paies {
		if key.Periode.Equal(periode) {
			delete(r.s.paies, key)
		}
	}
	return nil
}
