package notification

import (
	notifmodel "github.com/aegisops/guardops/internal/core/datamodel/notification"
)

// RepositoryAPI is the data access surface for in-app notifications.
type RepositoryAPI interface {
	Create(n *notifmodel.Notification) error
	CreateBatch(ns []*notifmodel.Notification) error
	GetByID(id string) (*notifmodel.Notification, error)
	UserNotifications(userID string, limit, offset int) ([]*notifmodel.Notification, error)
	UnreadCount(userID string) (int64, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
}
