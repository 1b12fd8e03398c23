package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnneesAncienneteAroundAnniversary(t *testing.T) {
	t.Parallel()

	e := Employee{DateEmbauche: time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 5, e.AnneesAnciennete(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, e.AnneesAnciennete(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAnneesAncienneteFutureHire(t *testing.T) {
	t.Parallel()

	e := Employee{DateEmbauche: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 0, e.AnneesAnciennete(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}
