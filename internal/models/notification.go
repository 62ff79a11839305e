package models

import "time"

// UserNotification 站内通知
type UserNotification struct {
	ID        uint       `gorm:"primarykey" json:"id"`                                       // 主键
	UserID    uint       `gorm:"index;not null" json:"user_id"`                              // 接收用户
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`                    // 标题
	Message   string     `gorm:"type:text" json:"message"`                                   // 内容
	Priority  string     `gorm:"type:varchar(16);not null;default:'normal'" json:"priority"` // 优先级
	BizType   string     `gorm:"type:varchar(32);index" json:"biz_type"`                     // 业务类型
	BizID     uint       `gorm:"index" json:"biz_id"`                                        // 业务ID
	ReadAt    *time.Time `gorm:"index" json:"read_at"`                                       // 已读时间
	CreatedAt time.Time  `gorm:"index" json:"created_at"`                                    // 创建时间
}

// TableName 指定表名
func (UserNotification) TableName() string {
	return "user_notifications"
}
