package guard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
	"github.com/aegisops/guardops/internal/transport"
	"github.com/aegisops/guardops/pkg/logger"
)

type ServiceAPI interface {
	GetGuard(id string) (*guardmodel.Guard, error)
	SetAvailability(guardID string, dto SetAvailabilityDTO) (*guardmodel.Availability, error)
	GetAvailability(guardID string) (*guardmodel.Availability, error)
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

func (h *Handler) GetGuard(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "id")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	g, err := h.Service.GetGuard(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "id")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	var dto SetAvailabilityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SetAvailability: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	av, err := h.Service.SetAvailability(guardID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, av)
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "id")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	av, err := h.Service.GetAvailability(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, av)
}
