package notification

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	notifmodel "github.com/aegisops/guardops/internal/core/datamodel/notification"
)

// Service handles in-app notification delivery and read state
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Enqueue creates one notification. Delivery failures are the caller's
// problem to decide on; replacement fan-out treats them as best effort.
func (s *Service) Enqueue(userID, title, message, notifType string, relatedShiftID *string) (*notifmodel.Notification, error) {
	if userID == "" {
		return nil, internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}

	n := &notifmodel.Notification{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           notifType,
		RelatedShiftID: relatedShiftID,
	}

	if err := s.repo.Create(n); err != nil {
		s.logger.Error("notification create failed", "error", err, "user_id", userID)
		return nil, internal.NewTransientError("notification create failed", err)
	}
	return n, nil
}

func (s *Service) UserNotifications(userID string, limit, offset int) ([]*notifmodel.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.UserNotifications(userID, limit, offset)
}

func (s *Service) UnreadCount(userID string) (int64, error) {
	return s.repo.UnreadCount(userID)
}

func (s *Service) MarkRead(id, userID string) error {
	if err := s.repo.MarkRead(id, userID); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		return internal.NewTransientError("mark read failed", err)
	}
	return nil
}

func (s *Service) MarkAllRead(userID string) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		return internal.NewTransientError("mark all read failed", err)
	}
	return nil
}
