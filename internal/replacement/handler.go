package replacement

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aegisops/guardops/internal/transport"
	"github.com/aegisops/guardops/pkg/logger"
)

type ServiceAPI interface {
	DetectNoShows(ctx context.Context, now time.Time) (*ScanResult, error)
	RequestReplacement(dto RequestReplacementDTO) error
	AcceptReplacement(ctx context.Context, dto AcceptReplacementDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// DetectNoShows is the on-demand trigger; the worker covers the
// scheduled cadence.
func (h *Handler) DetectNoShows(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.DetectNoShows(r.Context(), time.Now())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) RequestReplacement(w http.ResponseWriter, r *http.Request) {
	var dto RequestReplacementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RequestReplacement: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RequestReplacement(dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "reassigned"})
}

func (h *Handler) AcceptReplacement(w http.ResponseWriter, r *http.Request) {
	var dto AcceptReplacementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AcceptReplacement: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.AcceptReplacement(r.Context(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
