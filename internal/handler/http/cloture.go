package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/handler/http/response"
)

type ClotureHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type clotureHandlerImpl struct {
	clotureService cloture.Service
}

func NewClotureHandler(clotureService cloture.Service) ClotureHandler {
	return &clotureHandlerImpl{clotureService: clotureService}
}

func (h *clotureHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req cloture.StartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	run, err := h.clotureService.Start(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Closing run started", run)
}

func (h *clotureHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.clotureService.Get(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, run)
}

func (h *clotureHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	if err := h.clotureService.Cancel(r.Context(), runID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Closing run cancelled", nil)
}

// Stream handles SSE connection for real-time closing progress
func (h *clotureHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, cleanup, err := h.clotureService.Subscribe(runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer cleanup()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: connected\ndata: {\"run_id\":%q}\n\n", runID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case progress, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(progress)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
			flusher.Flush()

		case <-keepalive.C:
			// Send keepalive ping
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
