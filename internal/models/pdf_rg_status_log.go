package models

import "time"

// PdfRgStatusLog 订单状态变更记录
type PdfRgStatusLog struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	OrderID      uint        `gorm:"index;not null" json:"order_id"`
	FromStatus   PdfRgStatus `gorm:"not null" json:"from_status"`
	ToStatus     PdfRgStatus `gorm:"not null" json:"to_status"`
	AdminID      uint        `gorm:"index" json:"admin_id"`
	DocumentName string      `gorm:"type:varchar(255)" json:"document_name,omitempty"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (PdfRgStatusLog) TableName() string {
	return "pdf_rg_status_logs"
}
