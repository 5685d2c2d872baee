package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	notifmodel "github.com/aegisops/guardops/internal/core/datamodel/notification"
	"github.com/aegisops/guardops/internal/notification"
)

// NotificationRepository implements notification.RepositoryAPI using GORM
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notifmodel.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) CreateBatch(ns []*notifmodel.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(ns).Error
}

func (r *NotificationRepository) GetByID(id string) (*notifmodel.Notification, error) {
	var n notifmodel.Notification
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) UserNotifications(userID string, limit, offset int) ([]*notifmodel.Notification, error) {
	var ns []*notifmodel.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ns).Error
	return ns, err
}

func (r *NotificationRepository) UnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&notifmodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(id, userID string) error {
	res := r.db.Model(&notifmodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"read": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(userID string) error {
	return r.db.Model(&notifmodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "updated_at": time.Now()}).Error
}
