package models

import "time"

// Consultation 模块消费记录
type Consultation struct {
	ID            uint      `gorm:"primarykey" json:"id"`                              // 主键
	UserID        uint      `gorm:"index;not null" json:"user_id"`                     // 用户ID
	ModuleID      uint      `gorm:"index;not null;default:0" json:"module_id"`         // 模块ID
	Document      string    `gorm:"type:varchar(32);index;not null" json:"document"`   // 查询证件号
	Cost          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"cost"` // 消费金额
	FundingSource string    `gorm:"type:varchar(16);not null" json:"funding_source"`   // 扣费来源 plano/carteira/misto
	Status        string    `gorm:"type:varchar(16);not null" json:"status"`           // 记录状态
	ResultID      uint      `gorm:"index" json:"result_id"`                            // 关联订单ID
	Metadata      JSON      `gorm:"type:json" json:"metadata"`                         // 附加信息
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                           // 创建时间
}

// TableName 指定表名
func (Consultation) TableName() string {
	return "consultations"
}
