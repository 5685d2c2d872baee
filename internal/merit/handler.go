package merit

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	meritmodel "github.com/aegisops/guardops/internal/core/datamodel/merit"
	"github.com/aegisops/guardops/internal/transport"
	"github.com/aegisops/guardops/pkg/logger"
)

type ServiceAPI interface {
	CalculateMeritScore(guardID string) (*meritmodel.Score, error)
	GetMeritScore(guardID string) (*meritmodel.Score, error)
	GetRankedGuards() ([]*RankedGuard, error)
	GetOvertimeCandidates() ([]*RankedGuard, error)
	SubmitEvaluation(dto SubmitEvaluationDTO) (*meritmodel.ClientEvaluation, error)
	GuardEvaluations(guardID string) ([]*meritmodel.ClientEvaluation, error)
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

func (h *Handler) CalculateMeritScore(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "guardID")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	score, err := h.Service.CalculateMeritScore(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, score)
}

func (h *Handler) GetMeritScore(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "guardID")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	score, err := h.Service.GetMeritScore(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, score)
}

func (h *Handler) RankedGuards(w http.ResponseWriter, r *http.Request) {
	guards, err := h.Service.GetRankedGuards()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, guards)
}

func (h *Handler) OvertimeCandidates(w http.ResponseWriter, r *http.Request) {
	guards, err := h.Service.GetOvertimeCandidates()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, guards)
}

func (h *Handler) SubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	var dto SubmitEvaluationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitEvaluation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := h.Service.SubmitEvaluation(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ev)
}

func (h *Handler) GuardEvaluations(w http.ResponseWriter, r *http.Request) {
	guardID := chi.URLParam(r, "guardID")
	if guardID == "" {
		h.WriteError(w, http.StatusBadRequest, "guard ID is required")
		return
	}

	evals, err := h.Service.GuardEvaluations(guardID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, evals)
}
