package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/hoverlate/internal/document"
	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
	"github.com/davidbz/hoverlate/internal/selection"
)

// Request body limits.
const (
	maxDocumentBytes = 4 << 20
	maxSelectBytes   = 4 << 10
)

// HoverRequest is the body of POST /v1/hover.
// Position and selection characters count UTF-16 code units, as LSP hosts send them.
type HoverRequest struct {
	URI        string             `json:"uri"`
	Text       string             `json:"text"`
	Position   domain.Position    `json:"position"`
	Selections []domain.Selection `json:"selections,omitempty"`
}

// SelectRequest is the body of POST /v1/providers/select.
type SelectRequest struct {
	Choice string `json:"choice"`
}

// SelectResponse reports the chosen provider and the lifecycle after the reload it triggered.
type SelectResponse struct {
	Selected domain.Candidate `json:"selected"`
	Status   domain.Status    `json:"status"`
}

// Handler handles HTTP requests.
type Handler struct {
	hover    *domain.HoverService
	manager  *domain.LifecycleManager
	selector *selection.Selector
	gate     *HoverGate
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	hover *domain.HoverService,
	manager *domain.LifecycleManager,
	selector *selection.Selector,
	gate *HoverGate,
) *Handler {
	return &Handler{
		hover:    hover,
		manager:  manager,
		selector: selector,
		gate:     gate,
	}
}

// HandleHover answers a hover request with 200 and the hover blocks,
// or 204 when there is nothing to show.
func (h *Handler) HandleHover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req HoverRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if _, ok := h.gate.Active(); !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx = observability.WithDocumentURI(ctx, req.URI)
	logger := observability.FromContext(ctx)
	logger.Debug("hover request received",
		observability.Int("line", req.Position.Line),
		observability.Int("character", req.Position.Character),
		observability.Bool("has_selection", len(req.Selections) > 0),
	)

	result, err := h.hover.Hover(ctx, &domain.HoverRequest{
		Document:   document.New(req.URI, req.Text),
		Position:   req.Position,
		Selections: req.Selections,
	})
	if err != nil {
		logger.Error("hover failed", observability.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// HandleProviders lists the selectable translation providers.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	candidates, err := h.selector.Candidates(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("listing providers failed", observability.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"providers": candidates,
	})
}

// HandleSelect stores the chosen provider, which reloads the lifecycle.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SelectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	selected, err := h.selector.Select(ctx, req.Choice)
	switch {
	case errors.Is(err, selection.ErrEmptyChoice):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, selection.ErrUnknownCandidate):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		observability.FromContext(ctx).Error("provider selection failed", observability.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := h.manager.Status()
	observability.FromContext(ctx).Info("provider selection applied",
		observability.String("plugin_id", selected.ID),
		observability.String("state", status.State.String()),
		observability.Uint64("generation", status.Generation))

	writeJSON(w, r, http.StatusOK, SelectResponse{
		Selected: selected,
		Status:   status,
	})
}

// HandleStatus reports the provider lifecycle.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, r, http.StatusOK, h.manager.Status())
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(r.Context()).Warn("failed to encode response", observability.Error(err))
	}
}
