package repository

import (
	"github.com/consultas-painel/pdfrg/internal/models"

	"gorm.io/gorm"
)

// ConsultationRepository 消费记录数据访问接口
type ConsultationRepository interface {
	Create(record *models.Consultation) error
	ListByUser(filter ConsultationListFilter) ([]models.Consultation, int64, error)
	WithTx(tx *gorm.DB) *GormConsultationRepository
}

// GormConsultationRepository GORM 实现
type GormConsultationRepository struct {
	db *gorm.DB
}

// NewConsultationRepository 创建消费记录仓库
func NewConsultationRepository(db *gorm.DB) *GormConsultationRepository {
	return &GormConsultationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormConsultationRepository) WithTx(tx *gorm.DB) *GormConsultationRepository {
	if tx == nil {
		return r
	}
	return &GormConsultationRepository{db: tx}
}

// Create 写入消费记录
func (r *GormConsultationRepository) Create(record *models.Consultation) error {
	return r.db.Create(record).Error
}

// ListByUser 分页查询用户消费记录
func (r *GormConsultationRepository) ListByUser(filter ConsultationListFilter) ([]models.Consultation, int64, error) {
	query := r.db.Model(&models.Consultation{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ModuleID != 0 {
		query = query.Where("module_id = ?", filter.ModuleID)
	}

	return findPage[models.Consultation](query, filter.Page, filter.PageSize)
}
