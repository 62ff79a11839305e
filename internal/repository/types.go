package repository

import (
	"time"

	"github.com/consultas-painel/pdfrg/internal/models"
)

// PdfRgOrderListFilter 查询 PDF RG 订单列表的过滤条件
type PdfRgOrderListFilter struct {
	UserID *uint
	Status *models.PdfRgStatus
	Search string
	Limit  int
	Offset int
}

// WalletTransactionListFilter 查询钱包流水列表的过滤条件
type WalletTransactionListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	OrderID     uint
	Type        string
	Pool        string
	Direction   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ConsultationListFilter 查询消费记录列表的过滤条件
type ConsultationListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	ModuleID uint
}

// NotificationListFilter 查询站内通知列表的过滤条件
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	UnreadOnly bool
}
