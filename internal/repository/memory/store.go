// Package memory provides in-memory repository implementations used by
// tests and the STORE=memory development mode. Writes hold a single
// mutex; reads return copies so callers never alias store state.
package memory

import (
	"sync"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/domain/engagement"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
)

type categorieKey struct {
	Nom     string
	Echelon int
}

type Store struct {
	mu sync.RWMutex

	employees  map[int64]employee.Employee
	categories map[categorieKey]employee.Categorie

	motifs        map[int64]paie.Motif
	rubriques     map[int64]paie.Rubrique
	rubriquesPaie map[paie.RubriquePaieKey]paie.RubriquePaie
	njt           map[paie.NjtKey]paie.NjtRecord
	paies         map[paie.NjtKey]paie.Paie

	engagements map[int64]engagement.Engagement
	history     []engagement.History

	params *parametres.GlobalParameters

	// stagingDrafts counts draft rows (leave, attendance, overtime)
	// staged per periode; documents counts stale posting vouchers. Both
	// exist so staging purges are observable in tests and dev mode.
	stagingDrafts map[time.Time]int
	documents     int
}

func NewStore() *Store {
	return &Store{
		employees:     make(map[int64]employee.Employee),
		categories:    make(map[categorieKey]employee.Categorie),
		motifs:        make(map[int64]paie.Motif),
		rubriques:     make(map[int64]paie.Rubrique),
		rubriquesPaie: make(map[paie.RubriquePaieKey]paie.RubriquePaie),
		njt:           make(map[paie.NjtKey]paie.NjtRecord),
		paies:         make(map[paie.NjtKey]paie.Paie),
		engagements:   make(map[int64]engagement.Engagement),
		stagingDrafts: make(map[time.Time]int),
	}
}

// PutEmployee, PutCategorie, PutMotif, PutRubrique, PutEngagement and
// PutParametres load fixtures; dev mode and tests call them directly.

func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) PutCategorie(c employee.Categorie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[categorieKey{Nom: c.Nom, Echelon: c.Echelon}] = c
}

func (s *Store) PutMotif(m paie.Motif) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.motifs[m.ID] = m
}

func (s *Store) PutRubrique(r paie.Rubrique) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rubriques[r.ID] = r
}

func (s *Store) PutEngagement(e engagement.Engagement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engagements[e.ID] = e
}

func (s *Store) PutParametres(p parametres.GlobalParameters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = &p
}

func (s *Store) AddStagedDraft(periode time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stagingDrafts[paie.NormalizePeriode(periode)]++
}

func (s *Store) StagedDrafts(periode time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stagingDrafts[paie.NormalizePeriode(periode)]
}

func (s *Store) AddDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents++
}

func (s *Store) Documents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents
}
