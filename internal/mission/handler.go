package mission

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	missionmodel "github.com/aegisops/guardops/internal/core/datamodel/mission"
	"github.com/aegisops/guardops/internal/transport"
	"github.com/aegisops/guardops/pkg/logger"
)

type ServiceAPI interface {
	AssignMission(ctx context.Context, dto AssignMissionDTO) (*Allocation, error)
	GetMission(id string) (*missionmodel.Mission, error)
	Missions(limit, offset int) ([]*missionmodel.Mission, error)
	MissionAllocation(id string) (*Allocation, error)
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

func (h *Handler) AssignMission(w http.ResponseWriter, r *http.Request) {
	var dto AssignMissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignMission: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alloc, err := h.Service.AssignMission(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, alloc)
}

func (h *Handler) GetMission(w http.ResponseWriter, r *http.Request) {
	missionID := chi.URLParam(r, "id")
	if missionID == "" {
		h.WriteError(w, http.StatusBadRequest, "mission ID is required")
		return
	}

	var payload interface{}
	var err error
	if r.URL.Query().Get("expand") == "allocation" {
		payload, err = h.Service.MissionAllocation(missionID)
	} else {
		var m *missionmodel.Mission
		m, err = h.Service.GetMission(missionID)
		payload = m
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) Missions(w http.ResponseWriter, r *http.Request) {
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

	missions, err := h.Service.Missions(limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, missions)
}
