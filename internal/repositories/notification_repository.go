package repositories

import (
	"github.com/pokerconnect/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// Listings and the unread count are restricted to the fixed eligible type
// set; the unread count is always recomputed, never stored.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) error
	MarkAllAsRead(recipientID uint) error
	DeleteAllForUser(userID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByRecipientID returns eligible notifications, newest first, paginated.
func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	scope := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type IN ?", recipientID, models.EligibleNotificationTypes)
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ? AND type IN ?", recipientID, models.EligibleNotificationTypes).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// GetUnreadCount counts unread eligible records. The badge is this pure
// function of the stream, never a separately maintained counter.
func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND type IN ?", recipientID, false, models.EligibleNotificationTypes).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips the read flag on a single record, scoped to the recipient
// so one user cannot mark another's notification.
func (r *postgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllAsRead batches the same single-field mutation across every unread
// eligible record for the recipient.
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND type IN ?", recipientID, false, models.EligibleNotificationTypes).
		Update("is_read", true).Error
}

// DeleteAllForUser removes notifications where the user is recipient or
// actor. Part of the account-deletion cascade.
func (r *postgresNotificationRepository) DeleteAllForUser(userID uint) error {
	return r.db.Where("recipient_id = ? OR actor_id = ?", userID, userID).
		Delete(&models.Notification{}).Error
}
