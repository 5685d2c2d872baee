package fleet

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	fleetmodel "github.com/aegisops/guardops/internal/core/datamodel/fleet"
	"github.com/aegisops/guardops/internal/transport"
	"github.com/aegisops/guardops/pkg/logger"
)

type ServiceAPI interface {
	GetVehicle(id string) (*fleetmodel.Vehicle, error)
	AvailableVehicles(limit int) ([]*fleetmodel.Vehicle, error)
	AllocateCar(dto AllocateCarDTO) (*fleetmodel.CarAllocation, error)
	ReturnCar(allocationID string) error
	ActiveCarAllocations() ([]*fleetmodel.CarAllocation, error)
	CreateTrip(dto CreateTripDTO) (*fleetmodel.Trip, error)
	GetTrip(id string) (*fleetmodel.Trip, error)
	ActiveTrips() ([]*fleetmodel.Trip, error)
	TripsByMission(missionID string) ([]*fleetmodel.Trip, error)
	CompleteTrip(tripID string, dto CompleteTripDTO) error
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

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	if vehicleID == "" {
		h.WriteError(w, http.StatusBadRequest, "vehicle ID is required")
		return
	}

	v, err := h.Service.GetVehicle(vehicleID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) AvailableVehicles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	vehicles, err := h.Service.AvailableVehicles(limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, vehicles)
}

func (h *Handler) AllocateCar(w http.ResponseWriter, r *http.Request) {
	var dto AllocateCarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AllocateCar: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alloc, err := h.Service.AllocateCar(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, alloc)
}

func (h *Handler) ReturnCar(w http.ResponseWriter, r *http.Request) {
	allocationID := chi.URLParam(r, "id")
	if allocationID == "" {
		h.WriteError(w, http.StatusBadRequest, "allocation ID is required")
		return
	}

	if err := h.Service.ReturnCar(allocationID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "returned"})
}

func (h *Handler) ActiveCarAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := h.Service.ActiveCarAllocations()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, allocs)
}

func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var dto CreateTripDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTrip: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trip, err := h.Service.CreateTrip(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, trip)
}

func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	if tripID == "" {
		h.WriteError(w, http.StatusBadRequest, "trip ID is required")
		return
	}

	trip, err := h.Service.GetTrip(tripID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, trip)
}

func (h *Handler) ActiveTrips(w http.ResponseWriter, r *http.Request) {
	if missionID := r.URL.Query().Get("mission_id"); missionID != "" {
		trips, err := h.Service.TripsByMission(missionID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, trips)
		return
	}

	trips, err := h.Service.ActiveTrips()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, trips)
}

func (h *Handler) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	if tripID == "" {
		h.WriteError(w, http.StatusBadRequest, "trip ID is required")
		return
	}

	var dto CompleteTripDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("CompleteTrip: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.Service.CompleteTrip(tripID, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
