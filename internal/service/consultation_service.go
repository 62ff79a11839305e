package service

import (
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/constants"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"
)

// ConsultationService 模块消费记录服务
type ConsultationService struct {
	repo repository.ConsultationRepository
}

// RecordSpendInput 消费记录输入
type RecordSpendInput struct {
	UserID        uint
	ModuleID      uint
	Document      string
	Cost          models.Money
	FundingSource string
	ResultID      uint
	Metadata      models.JSON
}

// NewConsultationService 创建消费记录服务
func NewConsultationService(repo repository.ConsultationRepository) *ConsultationService {
	return &ConsultationService{repo: repo}
}

// RecordSpend 写入一条已完成的消费记录
func (s *ConsultationService) RecordSpend(input RecordSpendInput) (*models.Consultation, error) {
	if input.UserID == 0 {
		return nil, ErrWalletAccountNotFound
	}
	if input.Cost.Decimal.IsNegative() {
		return nil, ErrWalletInvalidAmount
	}
	source := strings.TrimSpace(input.FundingSource)
	switch source {
	case constants.FundingSourcePlan, constants.FundingSourceWallet, constants.FundingSourceMixed:
	default:
		source = constants.FundingSourceWallet
	}
	metadata := input.Metadata
	if metadata == nil {
		metadata = models.JSON{}
	}
	record := &models.Consultation{
		UserID:        input.UserID,
		ModuleID:      input.ModuleID,
		Document:      strings.TrimSpace(input.Document),
		Cost:          models.NewMoneyFromDecimal(input.Cost.Decimal),
		FundingSource: source,
		Status:        constants.ConsultationStatusCompleted,
		ResultID:      input.ResultID,
		Metadata:      metadata,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(record); err != nil {
		logger.Warnw("consultation_create_failed",
			"user_id", input.UserID,
			"result_id", input.ResultID,
			"error", err,
		)
		return nil, ErrConsultationCreateFailed
	}
	return record, nil
}

// ListByUser 分页查询用户消费记录
func (s *ConsultationService) ListByUser(filter repository.ConsultationListFilter) ([]models.Consultation, int64, error) {
	if filter.UserID == 0 {
		return []models.Consultation{}, 0, nil
	}
	return s.repo.ListByUser(filter)
}

// BuildPdfRgSpendMetadata 组装 PDF RG 消费记录附加信息
func BuildPdfRgSpendMetadata(moduleID uint, fundingSource string, at time.Time) models.JSON {
	return models.JSON{
		"module_name": constants.PdfRgModuleName,
		"module_id":   moduleID,
		"source":      constants.ConsultationSourcePdfRg,
		"saldo_usado": fundingSource,
		"timestamp":   at.UTC().Format(time.RFC3339),
	}
}
