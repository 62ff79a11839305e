package repository

import (
	"errors"
	"time"

	"github.com/consultas-painel/pdfrg/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 站内通知数据访问接口
type NotificationRepository interface {
	Create(notification *models.UserNotification) error
	List(filter NotificationListFilter) ([]models.UserNotification, int64, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(id, userID uint, readAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormNotificationRepository
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormNotificationRepository) WithTx(tx *gorm.DB) *GormNotificationRepository {
	if tx == nil {
		return r
	}
	return &GormNotificationRepository{db: tx}
}

// Create 写入通知
func (r *GormNotificationRepository) Create(notification *models.UserNotification) error {
	return r.db.Create(notification).Error
}

// List 分页查询通知
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.UserNotification, int64, error) {
	query := r.db.Model(&models.UserNotification{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}

	return findPage[models.UserNotification](query, filter.Page, filter.PageSize)
}

// CountUnread 统计未读数量
func (r *GormNotificationRepository) CountUnread(userID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.UserNotification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// MarkRead 标记已读，仅限本人通知。已读的通知保持原已读时间。
func (r *GormNotificationRepository) MarkRead(id, userID uint, readAt time.Time) (bool, error) {
	if id == 0 || userID == 0 {
		return false, nil
	}
	var notification models.UserNotification
	err := r.db.Select("id", "read_at").
		Where("id = ? AND user_id = ?", id, userID).
		Take(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if notification.ReadAt != nil {
		return true, nil
	}
	if err := r.db.Model(&models.UserNotification{}).
		Where("id = ?", id).
		Update("read_at", readAt).Error; err != nil {
		return false, err
	}
	return true, nil
}
