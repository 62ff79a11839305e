package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/cache"
	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/shopspring/decimal"
)

// PdfRgOrderService PDF RG 订单存储服务，负责入参规范化与持久化
type PdfRgOrderService struct {
	repo      repository.PdfRgOrderRepository
	cfg       config.PdfRgConfig
	summaries pdfRgSummaryStore
}

// pdfRgSummaryStore 汇总缓存，userID 为 0 表示全部订单
type pdfRgSummaryStore interface {
	Get(ctx context.Context, userID uint) (*cache.PdfRgSummary, bool, error)
	Set(ctx context.Context, userID uint, summary *cache.PdfRgSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, userID uint) error
}

type redisPdfRgSummaryStore struct{}

func (redisPdfRgSummaryStore) Get(ctx context.Context, userID uint) (*cache.PdfRgSummary, bool, error) {
	return cache.GetPdfRgSummary(ctx, userID)
}

func (redisPdfRgSummaryStore) Set(ctx context.Context, userID uint, summary *cache.PdfRgSummary, ttl time.Duration) error {
	return cache.SetPdfRgSummary(ctx, userID, summary, ttl)
}

func (redisPdfRgSummaryStore) Invalidate(ctx context.Context, userID uint) error {
	return cache.InvalidatePdfRgSummary(ctx, userID)
}

// PdfRgOrderInput 创建订单输入。数值字段保留原始文本，解析失败时按 0 处理
type PdfRgOrderInput struct {
	UserID           *uint
	ModuleID         string
	CPF              string
	Nome             string
	DtNascimento     string
	Naturalidade     string
	FiliacaoMae      string
	FiliacaoPai      string
	Diretor          string
	AssinaturaBase64 string
	FotoBase64       string
	Anexo1Base64     string
	Anexo1Nome       string
	Anexo2Base64     string
	Anexo2Nome       string
	Anexo3Base64     string
	Anexo3Nome       string
	QRPlan           string
	PrecoPago        string
	DescontoAplicado string
	Status           models.PdfRgStatus
	// SubscriptionDiscount 用户订阅折扣百分比，仅用户下单时参与计价
	SubscriptionDiscount decimal.Decimal
}

// PdfRgSummary 订单状态汇总
type PdfRgSummary struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// NewPdfRgOrderService 创建订单存储服务
func NewPdfRgOrderService(repo repository.PdfRgOrderRepository, cfg config.PdfRgConfig) *PdfRgOrderService {
	return &PdfRgOrderService{repo: repo, cfg: cfg.Normalize(), summaries: redisPdfRgSummaryStore{}}
}

// Create 规范化输入并写入订单，返回带 ID 的完整记录
func (s *PdfRgOrderService) Create(ctx context.Context, input PdfRgOrderInput) (*models.PdfRgOrder, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(order); err != nil {
		logger.Warnw("pdf_rg_order_create_failed", "cpf", logger.MaskCPF(order.CPF), "error", err)
		return nil, ErrPdfRgOrderCreateFailed
	}
	s.invalidateSummary(ctx, order.OwnerID())
	return order, nil
}

// Get 获取完整订单
func (s *PdfRgOrderService) Get(id uint) (*models.PdfRgOrder, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		logger.Warnw("pdf_rg_order_fetch_failed", "order_id", id, "error", err)
		return nil, ErrPdfRgOrderFetchFailed
	}
	if order == nil {
		return nil, ErrPdfRgOrderNotFound
	}
	return order, nil
}

// List 按条件查询订单列表（不含附件内容）
func (s *PdfRgOrderService) List(filter repository.PdfRgOrderListFilter) ([]models.PdfRgOrder, error) {
	orders, err := s.repo.List(filter)
	if err != nil {
		logger.Warnw("pdf_rg_order_list_failed", "error", err)
		return nil, ErrPdfRgOrderFetchFailed
	}
	return orders, nil
}

// Count 统计符合条件的订单数量
func (s *PdfRgOrderService) Count(filter repository.PdfRgOrderListFilter) (int64, error) {
	total, err := s.repo.Count(filter)
	if err != nil {
		logger.Warnw("pdf_rg_order_count_failed", "error", err)
		return 0, ErrPdfRgOrderFetchFailed
	}
	return total, nil
}

// UpdateStatus 更新状态，交付文档字段仅在提供时写入
func (s *PdfRgOrderService) UpdateStatus(ctx context.Context, id uint, status models.PdfRgStatus, doc *models.DeliveredDocument) error {
	if !status.Valid() {
		return ErrPdfRgInvalidStatus
	}
	if doc.IsEmpty() {
		doc = nil
	}
	found, err := s.repo.UpdateStatus(id, status, doc, time.Now())
	if err != nil {
		logger.Warnw("pdf_rg_order_update_status_failed", "order_id", id, "status", int(status), "error", err)
		return ErrPdfRgOrderUpdateFailed
	}
	if !found {
		return ErrPdfRgOrderNotFound
	}
	s.invalidateSummary(ctx, s.ownerOf(id))
	return nil
}

// Delete 删除订单
func (s *PdfRgOrderService) Delete(ctx context.Context, id uint) error {
	ownerID := s.ownerOf(id)
	found, err := s.repo.Delete(id)
	if err != nil {
		logger.Warnw("pdf_rg_order_delete_failed", "order_id", id, "error", err)
		return ErrPdfRgOrderDeleteFailed
	}
	if !found {
		return ErrPdfRgOrderNotFound
	}
	s.invalidateSummary(ctx, ownerID)
	return nil
}

// Summary 按状态汇总订单数量，全量与单用户汇总分别走短时缓存
func (s *PdfRgOrderService) Summary(ctx context.Context, userID *uint) (*PdfRgSummary, error) {
	cacheKey := uint(0)
	if userID != nil {
		cacheKey = *userID
	}
	cacheable := s.cfg.SummaryCacheTTL() > 0 && (userID == nil || cacheKey != 0)
	if cacheable {
		cached, hit, err := s.summaries.Get(ctx, cacheKey)
		if err != nil {
			logger.Warnw("pdf_rg_summary_cache_get_failed", "error", err)
		} else if hit {
			return &PdfRgSummary{Counts: cached.Counts, Total: cached.Total}, nil
		}
	}

	counts, err := s.repo.CountByStatus(repository.PdfRgOrderListFilter{UserID: userID})
	if err != nil {
		logger.Warnw("pdf_rg_summary_count_failed", "error", err)
		return nil, ErrPdfRgOrderFetchFailed
	}
	summary := &PdfRgSummary{Counts: make(map[string]int64, len(counts))}
	for _, status := range models.PdfRgStatuses() {
		summary.Counts[status.Key()] = counts[status]
		summary.Total += counts[status]
	}

	if cacheable {
		snapshot := &cache.PdfRgSummary{Counts: summary.Counts, Total: summary.Total, UpdatedAt: time.Now().Unix()}
		if err := s.summaries.Set(ctx, cacheKey, snapshot, s.cfg.SummaryCacheTTL()); err != nil {
			logger.Warnw("pdf_rg_summary_cache_set_failed", "error", err)
		}
	}
	return summary, nil
}

// RefreshSummary 丢弃缓存后重新统计全量汇总
func (s *PdfRgOrderService) RefreshSummary(ctx context.Context) (*PdfRgSummary, error) {
	s.invalidateSummary(ctx, 0)
	return s.Summary(ctx, nil)
}

// invalidateSummary 清除全量汇总，ownerID 非 0 时一并清除该用户的汇总
func (s *PdfRgOrderService) invalidateSummary(ctx context.Context, ownerID uint) {
	if err := s.summaries.Invalidate(ctx, ownerID); err != nil {
		logger.Warnw("pdf_rg_summary_cache_invalidate_failed", "user_id", ownerID, "error", err)
	}
}

// ownerOf 查询失败时返回 0，此时仅清除全量汇总，单用户汇总等待过期
func (s *PdfRgOrderService) ownerOf(id uint) uint {
	ownerID, err := s.repo.OwnerID(id)
	if err != nil {
		logger.Warnw("pdf_rg_order_owner_lookup_failed", "order_id", id, "error", err)
		return 0
	}
	return ownerID
}

func (s *PdfRgOrderService) buildOrder(input PdfRgOrderInput) (*models.PdfRgOrder, error) {
	cpf := NormalizeCPF(input.CPF)
	if cpf == "" {
		return nil, ErrPdfRgCPFRequired
	}
	status := input.Status
	if status == 0 {
		status = models.PdfRgStatusCreated
	}
	if !status.Valid() {
		return nil, ErrPdfRgInvalidStatus
	}
	qrPlan := strings.ToLower(strings.TrimSpace(input.QRPlan))
	if qrPlan == "" {
		qrPlan = s.cfg.DefaultQRPlan
	}

	now := time.Now()
	return &models.PdfRgOrder{
		ModuleID:         parseModuleID(input.ModuleID),
		UserID:           input.UserID,
		CPF:              cpf,
		Nome:             nullableText(input.Nome),
		DtNascimento:     nullableText(input.DtNascimento),
		Naturalidade:     nullableText(input.Naturalidade),
		FiliacaoMae:      nullableText(input.FiliacaoMae),
		FiliacaoPai:      nullableText(input.FiliacaoPai),
		Diretor:          nullableText(input.Diretor),
		AssinaturaBase64: nullableText(input.AssinaturaBase64),
		FotoBase64:       nullableText(input.FotoBase64),
		Anexo1Base64:     nullableText(input.Anexo1Base64),
		Anexo1Nome:       nullableText(input.Anexo1Nome),
		Anexo2Base64:     nullableText(input.Anexo2Base64),
		Anexo2Nome:       nullableText(input.Anexo2Nome),
		Anexo3Base64:     nullableText(input.Anexo3Base64),
		Anexo3Nome:       nullableText(input.Anexo3Nome),
		QRPlan:           qrPlan,
		PrecoPago:        models.ParseMoneyOrZero(input.PrecoPago),
		DescontoAplicado: models.ParseMoneyOrZero(input.DescontoAplicado),
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// NormalizeCPF 去除格式字符，仅保留数字
func NormalizeCPF(raw string) string {
	return models.DigitsOnly(raw)
}

func nullableText(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}

func parseModuleID(raw string) uint {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}
	if n, err := strconv.ParseUint(value, 10, 64); err == nil {
		return uint(n)
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
		return uint(f)
	}
	return 0
}
