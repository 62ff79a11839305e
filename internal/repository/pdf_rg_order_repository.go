package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/models"

	"gorm.io/gorm"
)

// PdfRgOrderRepository PDF RG 订单数据访问接口
type PdfRgOrderRepository interface {
	Create(order *models.PdfRgOrder) error
	GetByID(id uint) (*models.PdfRgOrder, error)
	List(filter PdfRgOrderListFilter) ([]models.PdfRgOrder, error)
	Count(filter PdfRgOrderListFilter) (int64, error)
	UpdateStatus(id uint, status models.PdfRgStatus, doc *models.DeliveredDocument, updatedAt time.Time) (bool, error)
	Delete(id uint) (bool, error)
	OwnerID(id uint) (uint, error)
	CountByStatus(filter PdfRgOrderListFilter) (map[models.PdfRgStatus]int64, error)
	WithTx(tx *gorm.DB) *GormPdfRgOrderRepository
}

// GormPdfRgOrderRepository GORM 实现
type GormPdfRgOrderRepository struct {
	db *gorm.DB
}

// NewPdfRgOrderRepository 创建 PDF RG 订单仓库
func NewPdfRgOrderRepository(db *gorm.DB) *GormPdfRgOrderRepository {
	return &GormPdfRgOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPdfRgOrderRepository) WithTx(tx *gorm.DB) *GormPdfRgOrderRepository {
	if tx == nil {
		return r
	}
	return &GormPdfRgOrderRepository{db: tx}
}

// Create 创建订单
func (r *GormPdfRgOrderRepository) Create(order *models.PdfRgOrder) error {
	return r.db.Create(order).Error
}

// GetByID 获取完整订单（含附件与交付文档）
func (r *GormPdfRgOrderRepository) GetByID(id uint) (*models.PdfRgOrder, error) {
	if id == 0 {
		return nil, nil
	}
	var order models.PdfRgOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 按条件查询订单列表，按 ID 倒序，不返回大字段
func (r *GormPdfRgOrderRepository) List(filter PdfRgOrderListFilter) ([]models.PdfRgOrder, error) {
	query := r.applyFilter(r.db.Model(&models.PdfRgOrder{}), filter).
		Select(models.PdfRgOrderListColumns).
		Order("id desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []models.PdfRgOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count 统计符合条件的订单数量，忽略分页参数
func (r *GormPdfRgOrderRepository) Count(filter PdfRgOrderListFilter) (int64, error) {
	var total int64
	if err := r.applyFilter(r.db.Model(&models.PdfRgOrder{}), filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateStatus 更新状态与更新时间，交付文档字段仅在提供时写入。返回记录是否存在。
func (r *GormPdfRgOrderRepository) UpdateStatus(id uint, status models.PdfRgStatus, doc *models.DeliveredDocument, updatedAt time.Time) (bool, error) {
	if id == 0 {
		return false, nil
	}
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": updatedAt,
	}
	if doc != nil {
		if doc.Base64 != nil {
			updates["pdf_entrega_base64"] = *doc.Base64
		}
		if doc.Name != nil {
			updates["pdf_entrega_nome"] = *doc.Name
		}
	}
	result := r.db.Model(&models.PdfRgOrder{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除订单（物理删除）。返回记录是否存在。
func (r *GormPdfRgOrderRepository) Delete(id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	result := r.db.Delete(&models.PdfRgOrder{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// OwnerID 查询订单所属用户，订单不存在或为后台录单时返回 0
func (r *GormPdfRgOrderRepository) OwnerID(id uint) (uint, error) {
	var row struct {
		UserID *uint
	}
	err := r.db.Model(&models.PdfRgOrder{}).Select("user_id").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if row.UserID == nil {
		return 0, nil
	}
	return *row.UserID, nil
}

type pdfRgStatusCountRow struct {
	Status models.PdfRgStatus
	Total  int64
}

// CountByStatus 按状态分组统计
func (r *GormPdfRgOrderRepository) CountByStatus(filter PdfRgOrderListFilter) (map[models.PdfRgStatus]int64, error) {
	filter.Status = nil
	var rows []pdfRgStatusCountRow
	if err := r.applyFilter(r.db.Model(&models.PdfRgOrder{}), filter).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[models.PdfRgStatus]int64, len(models.PdfRgStatuses()))
	for _, status := range models.PdfRgStatuses() {
		result[status] = 0
	}
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

func (r *GormPdfRgOrderRepository) applyFilter(query *gorm.DB, filter PdfRgOrderListFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	search := strings.TrimSpace(filter.Search)
	if search == "" {
		return query
	}
	// 姓名按原文匹配，证件号只按数字匹配，输入 "123.456" 也能命中
	clause, args := containsAny(r.db,
		containsTerm{column: "nome", keyword: search},
		containsTerm{column: "cpf", keyword: models.DigitsOnly(search)},
	)
	return query.Where(clause, args...)
}
