package armory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
	"github.com/aegisops/guardops/internal/transport"
	"github.com/aegisops/guardops/pkg/logger"
)

type ServiceAPI interface {
	IssueFirearm(ctx context.Context, dto IssueFirearmDTO) (*armorymodel.Allocation, error)
	ReturnFirearm(dto ReturnFirearmDTO) error
	GuardAllocations(guardID string) ([]*armorymodel.Allocation, error)
	ActiveAllocations() ([]*armorymodel.Allocation, error)
	AllAllocations(limit, offset int) ([]*armorymodel.Allocation, error)
	OverdueAllocations() ([]*armorymodel.Allocation, error)
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

func (h *Handler) IssueFirearm(w http.ResponseWriter, r *http.Request) {
	var dto IssueFirearmDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("IssueFirearm: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alloc, err := h.Service.IssueFirearm(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, alloc)
}

func (h *Handler) ReturnFirearm(w http.ResponseWriter, r *http.Request) {
	allocationID := chi.URLParam(r, "id")
	if allocationID == "" {
		h.WriteError(w, http.StatusBadRequest, "allocation ID is required")
		return
	}

	if err := h.Service.ReturnFirearm(ReturnFirearmDTO{AllocationID: allocationID}); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "returned"})
}

func (h *Handler) GuardAllocations(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "guardID")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	allocs, err := h.Service.GuardAllocations(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, allocs)
}

func (h *Handler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("status") == "active" {
		allocs, err := h.Service.ActiveAllocations()
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, allocs)
		return
	}

	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	allocs, err := h.Service.AllAllocations(limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, allocs)
}

func (h *Handler) OverdueAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := h.Service.OverdueAllocations()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, allocs)
}
