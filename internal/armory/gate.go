package armory

import (
	"log/slog"
	"time"

	"github.com/aegisops/guardops/internal"
	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
)

// Gate decides whether a guard may be issued a firearm: an active permit
// with a future expiry AND a valid, non-expired firearms handling
// training record. Denial has no side effects.
type Gate struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewGate(repo RepositoryAPI, logger *slog.Logger) *Gate {
	return &Gate{
		repo:   repo,
		logger: logger,
	}
}

func (g *Gate) Authorize(guardID string, now time.Time) error {
	permit, err := g.repo.ActivePermit(guardID, now)
	if err != nil {
		g.logger.Error("gate: permit lookup failed", "error", err, "guard_id", guardID)
		return internal.NewTransientError("permit lookup failed", err)
	}
	if permit == nil {
		g.logger.Warn("gate: issuance denied, no active permit", "guard_id", guardID)
		return internal.ErrPermitRequired
	}

	training, err := g.repo.ValidTraining(guardID, armorymodel.TrainingFirearmHandling, now)
	if err != nil {
		g.logger.Error("gate: training lookup failed", "error", err, "guard_id", guardID)
		return internal.NewTransientError("training lookup failed", err)
	}
	if training == nil {
		g.logger.Warn("gate: issuance denied, no current training", "guard_id", guardID)
		return internal.ErrTrainingRequired
	}

	return nil
}
