package shift

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/transport"
	"github.com/aegisops/guardops/pkg/logger"
)

type ServiceAPI interface {
	CreateShift(dto CreateShiftDTO) (*shiftmodel.Shift, error)
	GetShift(id string) (*shiftmodel.Shift, error)
	GuardShifts(guardID string) ([]*shiftmodel.Shift, error)
	UpdateShift(id string, dto UpdateShiftDTO) (*shiftmodel.Shift, error)
	DeleteShift(id string) error
	StartShift(id string) error
	CompleteShift(id string) error
	CheckIn(dto CheckInDTO) (*shiftmodel.Attendance, error)
	CheckOut(attendanceID string) (*shiftmodel.Attendance, error)
	GuardAttendance(guardID string) ([]*shiftmodel.Attendance, error)
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

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var dto CreateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateShift: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sh, err := h.Service.CreateShift(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sh)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		h.WriteError(w, http.StatusBadRequest, "shift ID is required")
		return
	}

	sh, err := h.Service.GetShift(shiftID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) GuardShifts(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "guardID")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	shifts, err := h.Service.GuardShifts(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shifts)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		h.WriteError(w, http.StatusBadRequest, "shift ID is required")
		return
	}

	var dto UpdateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateShift: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sh, err := h.Service.UpdateShift(shiftID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		h.WriteError(w, http.StatusBadRequest, "shift ID is required")
		return
	}

	if err := h.Service.DeleteShift(shiftID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) StartShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		h.WriteError(w, http.StatusBadRequest, "shift ID is required")
		return
	}

	if err := h.Service.StartShift(shiftID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "in_progress"})
}

func (h *Handler) CompleteShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		h.WriteError(w, http.StatusBadRequest, "shift ID is required")
		return
	}

	if err := h.Service.CompleteShift(shiftID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var dto CheckInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CheckIn: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	att, err := h.Service.CheckIn(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, att)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	attendanceID := chi.URLParam(r, "id")
	if attendanceID == "" {
		h.WriteError(w, http.StatusBadRequest, "attendance ID is required")
		return
	}

	att, err := h.Service.CheckOut(attendanceID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, att)
}

func (h *Handler) GuardAttendance(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "guardID")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	atts, err := h.Service.GuardAttendance(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, atts)
}
