package repository

import (
	"github.com/consultas-painel/pdfrg/internal/models"

	"gorm.io/gorm"
)

// PdfRgStatusLogRepository 订单状态变更记录数据访问接口
type PdfRgStatusLogRepository interface {
	Create(log *models.PdfRgStatusLog) error
	ListByOrder(orderID uint) ([]models.PdfRgStatusLog, error)
	WithTx(tx *gorm.DB) *GormPdfRgStatusLogRepository
}

// GormPdfRgStatusLogRepository GORM 实现
type GormPdfRgStatusLogRepository struct {
	db *gorm.DB
}

// NewPdfRgStatusLogRepository 创建状态变更记录仓库
func NewPdfRgStatusLogRepository(db *gorm.DB) *GormPdfRgStatusLogRepository {
	return &GormPdfRgStatusLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPdfRgStatusLogRepository) WithTx(tx *gorm.DB) *GormPdfRgStatusLogRepository {
	if tx == nil {
		return r
	}
	return &GormPdfRgStatusLogRepository{db: tx}
}

// Create 写入状态变更记录
func (r *GormPdfRgStatusLogRepository) Create(log *models.PdfRgStatusLog) error {
	return r.db.Create(log).Error
}

// ListByOrder 按订单查询状态变更记录，按时间正序
func (r *GormPdfRgStatusLogRepository) ListByOrder(orderID uint) ([]models.PdfRgStatusLog, error) {
	if orderID == 0 {
		return []models.PdfRgStatusLog{}, nil
	}
	var logs []models.PdfRgStatusLog
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
