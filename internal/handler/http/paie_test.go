package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/pkg/jwt"
	"github.com/rim-hr/paie-backend-go/internal/repository/memory"
	clotureService "github.com/rim-hr/paie-backend-go/internal/service/cloture"
	paieService "github.com/rim-hr/paie-backend-go/internal/service/paie"
)

const handlerTestSecret = "test-secret-key-for-jwt"

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	store := memory.NewStore()
	store.Seed(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	store.PutCategorie(employee.Categorie{Nom: "C1", Echelon: 1, Salaire: decimal.NewFromInt(90000)})
	store.PutEmployee(employee.Employee{
		ID: 1, Nom: "Ba", Actif: true, Categorie: "C1", Echelon: 1,
		DateEmbauche: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		SalaireBase:  decimal.NewFromInt(80000),
	})

	employeeRepo := memory.NewEmployeeRepository(store)
	categorieRepo := memory.NewCategorieRepository(store)
	motifRepo := memory.NewMotifRepository(store)
	rubriqueRepo := memory.NewRubriqueRepository(store)
	rubriquePaieRepo := memory.NewRubriquePaieRepository(store)
	njtRepo := memory.NewNjtRepository(store)
	paieRepo := memory.NewPaieRepository(store)

	calc := paieService.NewCalculator()
	resolver := paieService.NewResolver(calc, employeeRepo, categorieRepo, motifRepo, rubriqueRepo, rubriquePaieRepo, njtRepo)
	aggregator := paieService.NewAggregator(calc, employeeRepo, motifRepo, rubriqueRepo, rubriquePaieRepo, njtRepo, paieRepo, memory.NewParametresRepository(store))
	paieSvc := paieService.NewPaieService(resolver, aggregator, motifRepo, rubriqueRepo, njtRepo)
	clotureSvc := clotureService.NewClotureService(
		employeeRepo, categorieRepo, motifRepo, rubriquePaieRepo, njtRepo, paieRepo,
		memory.NewEngagementRepository(store), memory.NewParametresRepository(store),
		memory.NewStagingStore(store), resolver,
	)

	jwtService := jwt.NewJWTService(handlerTestSecret)
	token, err := jwtService.GenerateServiceToken("tests", time.Hour)
	require.NoError(t, err)

	router := NewRouter("test", jwtService, NewPaieHandler(paieSvc), NewClotureHandler(clotureSvc))
	return router, token
}

func doJSON(t *testing.T, router http.Handler, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSetNjtAndComputePaie(t *testing.T) {
	router, token := newTestRouter(t)

	rec := doJSON(t, router, token, http.MethodPut, "/api/v1/njt", map[string]interface{}{
		"employee_id": 1, "motif_id": 1, "periode": "2026-09-01", "njt": "26",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, token, http.MethodPut, "/api/v1/rubriques-paie", map[string]interface{}{
		"employee_id": 1, "motif_id": 1, "rubrique_id": 1, "periode": "2026-09-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, token, http.MethodPost, "/api/v1/paies/compute", map[string]interface{}{
		"employee_id": 1, "motif_id": 1, "periode_du": "2026-09-01", "periode_au": "2026-09-30",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			BT  decimal.Decimal `json:"bt"`
			Net decimal.Decimal `json:"net"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, decimal.NewFromInt(78000).Equal(resp.Data.BT), "bt %s", resp.Data.BT)
	assert.True(t, resp.Data.Net.IsPositive())
}

func TestSetRubriquePaieValidation(t *testing.T) {
	router, token := newTestRouter(t)

	rec := doJSON(t, router, token, http.MethodPut, "/api/v1/rubriques-paie", map[string]interface{}{
		"employee_id": 0, "motif_id": 1, "rubrique_id": 1, "periode": "not-a-date",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestComputePaieUnknownEmployeeReturns404(t *testing.T) {
	router, token := newTestRouter(t)

	rec := doJSON(t, router, token, http.MethodPost, "/api/v1/paies/compute", map[string]interface{}{
		"employee_id": 99, "motif_id": 1, "periode_du": "2026-09-01", "periode_au": "2026-09-30",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestListRubriquesRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rubriques", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMotifs(t *testing.T) {
	router, token := newTestRouter(t)

	rec := doJSON(t, router, token, http.MethodGet, "/api/v1/motifs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			ID        int64 `json:"id"`
			ParDefaut bool  `json:"par_defaut"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	assert.True(t, resp.Data[0].ParDefaut)
}

func TestStartClotureAccepted(t *testing.T) {
	router, token := newTestRouter(t)

	rec := doJSON(t, router, token, http.MethodPost, "/api/v1/cloture", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			ID   string `json:"id"`
			Etat string `json:"etat"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)

	// The run record stays pollable.
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = doJSON(t, router, token, http.MethodGet, "/api/v1/cloture/runs/"+resp.Data.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var poll struct {
			Data struct {
				Etat string `json:"etat"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &poll))
		if poll.Data.Etat == "closed" || poll.Data.Etat == "aborted" {
			assert.Equal(t, "closed", poll.Data.Etat)
			break
		}
		require.True(t, time.Now().Before(deadline), "run did not finish")
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGetUnknownRunReturns404(t *testing.T) {
	router, token := newTestRouter(t)

	rec := doJSON(t, router, token, http.MethodGet, "/api/v1/cloture/runs/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
