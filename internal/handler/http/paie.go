package http

import (
	"encoding/json"
	"net/http"

	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/handler/http/response"
)

type PaieHandler interface {
	// Pay lines
	SetRubriquePaie(w http.ResponseWriter, r *http.Request)
	SetNjt(w http.ResponseWriter, r *http.Request)

	// Payslip
	ComputePaie(w http.ResponseWriter, r *http.Request)

	// Reference data
	ListMotifs(w http.ResponseWriter, r *http.Request)
	ListRubriques(w http.ResponseWriter, r *http.Request)
}

type paieHandlerImpl struct {
	paieService paie.Service
}

func NewPaieHandler(paieService paie.Service) PaieHandler {
	return &paieHandlerImpl{paieService: paieService}
}

// ========== PAY LINES ==========

func (h *paieHandlerImpl) SetRubriquePaie(w http.ResponseWriter, r *http.Request) {
	var req paie.SetRubriquePaieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.paieService.SetRubriquePaie(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *paieHandlerImpl) SetNjt(w http.ResponseWriter, r *http.Request) {
	var req paie.SetNjtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	saved, err := h.paieService.SetNjt(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]bool{"saved": saved})
}

// ========== PAYSLIP ==========

func (h *paieHandlerImpl) ComputePaie(w http.ResponseWriter, r *http.Request) {
	var req paie.ComputePaieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.paieService.ComputePaie(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== REFERENCE DATA ==========

func (h *paieHandlerImpl) ListMotifs(w http.ResponseWriter, r *http.Request) {
	result, err := h.paieService.ListMotifs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *paieHandlerImpl) ListRubriques(w http.ResponseWriter, r *http.Request) {
	result, err := h.paieService.ListRubriques(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
