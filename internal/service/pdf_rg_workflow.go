package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/constants"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/messaging"
	"github.com/consultas-painel/pdfrg/internal/metrics"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	pdfRgStatusNotifyTitle      = "Pedido PDF RG #{{order_id}} atualizado"
	pdfRgStatusNotifyMessage    = "O status do seu pedido PDF RG #{{order_id}} foi alterado para: {{status}}."
	pdfRgDeliveredNotifyTitle   = "PDF RG #{{order_id}} entregue"
	pdfRgDeliveredNotifyMessage = "Seu PDF RG #{{order_id}} está pronto. O documento {{document_name}} já pode ser baixado."
)

// Warning 流程中的非致命问题，主结果仍然有效
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateResult 下单结果
type CreateResult struct {
	Order      *models.PdfRgOrder `json:"order"`
	Settlement *Settlement        `json:"settlement"`
	Warnings   []Warning          `json:"warnings"`
}

// TransitionResult 状态变更结果
type TransitionResult struct {
	Order    *models.PdfRgOrder `json:"order"`
	Warnings []Warning          `json:"warnings"`
}

// TransitionInput 状态变更输入，Document 为本次上传的交付文档
type TransitionInput struct {
	OrderID  uint
	Status   models.PdfRgStatus
	AdminID  uint
	Document *FilePayload
}

// PdfRgWorkflowDeps 订单流程依赖
type PdfRgWorkflowDeps struct {
	Orders        *PdfRgOrderService
	Wallet        *WalletService
	Consultations *ConsultationService
	Notifications *NotificationService
	StatusLogs    repository.PdfRgStatusLogRepository
	Publisher     messaging.Publisher
	Metrics       *metrics.Recorder
	Config        config.PdfRgConfig
}

// PdfRgWorkflow 编排下单扣款与状态流转
type PdfRgWorkflow struct {
	orders        *PdfRgOrderService
	wallet        *WalletService
	consultations *ConsultationService
	notifications *NotificationService
	statusLogs    repository.PdfRgStatusLogRepository
	publisher     messaging.Publisher
	metrics       *metrics.Recorder
	cfg           config.PdfRgConfig
	now           func() time.Time
}

// NewPdfRgWorkflow 创建订单流程
func NewPdfRgWorkflow(deps PdfRgWorkflowDeps) *PdfRgWorkflow {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &PdfRgWorkflow{
		orders:        deps.Orders,
		wallet:        deps.Wallet,
		consultations: deps.Consultations,
		notifications: deps.Notifications,
		statusLogs:    deps.StatusLogs,
		publisher:     publisher,
		metrics:       deps.Metrics,
		cfg:           deps.Config.Normalize(),
		now:           time.Now,
	}
}

// CreateOrder 用户下单：校验、落库后扣款并记录消费。
// 扣款或消费记录失败只产生告警，订单不回滚。
func (w *PdfRgWorkflow) CreateOrder(ctx context.Context, input PdfRgOrderInput) (*CreateResult, error) {
	input.Status = models.PdfRgStatusCreated
	if err := w.validateOrderInput(input); err != nil {
		return nil, err
	}
	quote, err := w.applyQuote(&input)
	if err != nil {
		return nil, err
	}

	price := quote.Total
	ownerID := uint(0)
	if input.UserID != nil {
		ownerID = *input.UserID
	}
	if ownerID != 0 && price.GreaterThan(decimal.Zero) {
		if err := w.ensureFunds(ownerID, price); err != nil {
			return nil, err
		}
	}

	order, err := w.orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	w.metrics.OrderCreated("user")

	result := &CreateResult{Order: order, Warnings: []Warning{}}
	if ownerID != 0 {
		w.settle(ctx, order, result)
	}
	w.publish(ctx, constants.EventPdfRgOrderCreated, newPdfRgOrderCreatedPayload(order), &result.Warnings)
	return result, nil
}

// applyQuote 按服务端价目表计价并覆盖入参金额；客户端报价与之不符时拒绝下单
func (w *PdfRgWorkflow) applyQuote(input *PdfRgOrderInput) (PdfRgQuote, error) {
	plan := strings.ToLower(strings.TrimSpace(input.QRPlan))
	if plan == "" {
		plan = w.cfg.DefaultQRPlan
	}
	quote, err := QuotePdfRgOrder(w.cfg.Pricing, plan, input.SubscriptionDiscount)
	if err != nil {
		logger.Errorw("pdf_rg_quote_failed", "qr_plan", plan, "error", err)
		return PdfRgQuote{}, err
	}
	if submitted := strings.TrimSpace(input.PrecoPago); submitted != "" {
		claimed, parseErr := models.ParseMoney(submitted)
		if parseErr != nil || !claimed.Decimal.Round(2).Equal(quote.Total) {
			logger.Warnw("pdf_rg_price_mismatch",
				"qr_plan", plan,
				"submitted", submitted,
				"expected", quote.Total.StringFixed(2),
			)
			return PdfRgQuote{}, ErrPdfRgPriceMismatch
		}
	}
	input.QRPlan = plan
	input.PrecoPago = quote.Total.StringFixed(2)
	input.DescontoAplicado = quote.DiscountPercent.StringFixed(2)
	if w.cfg.Pricing.ModuleID > 0 {
		input.ModuleID = strconv.FormatUint(uint64(w.cfg.Pricing.ModuleID), 10)
	}
	return quote, nil
}

// AdminCreateOrder 后台录单，不做余额校验与扣款
func (w *PdfRgWorkflow) AdminCreateOrder(ctx context.Context, input PdfRgOrderInput) (*CreateResult, error) {
	if input.Status != 0 && !input.Status.Valid() {
		return nil, ErrPdfRgInvalidStatus
	}
	if err := w.validateOrderInput(input); err != nil {
		return nil, err
	}
	order, err := w.orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	w.metrics.OrderCreated("admin")

	result := &CreateResult{Order: order, Warnings: []Warning{}}
	w.publish(ctx, constants.EventPdfRgOrderCreated, newPdfRgOrderCreatedPayload(order), &result.Warnings)
	return result, nil
}

// TransitionStatus 管理员变更订单状态。
// 目标为已交付时必须已有或同时上传交付文档，校验失败不会修改订单。
func (w *PdfRgWorkflow) TransitionStatus(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if !input.Status.Valid() {
		return nil, ErrPdfRgInvalidStatus
	}
	order, err := w.orders.Get(input.OrderID)
	if err != nil {
		return nil, err
	}

	if input.Document != nil {
		if err := validateFilePayload(input.Document, w.cfg.MaxDocumentBytes, w.cfg.AllowedDocumentTypes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPdfRgDocumentInvalid, err)
		}
	}
	if input.Status.IsTerminal() && input.Document == nil && !order.HasDeliveredDocument() {
		return nil, ErrPdfRgDocumentRequired
	}

	now := w.now()
	var doc *models.DeliveredDocument
	if input.Document != nil {
		encoded := input.Document.DataURL()
		name := BuildDeliveredDocumentName(order, input.Document, now)
		doc = &models.DeliveredDocument{Base64: &encoded, Name: &name}
	}

	fromStatus := order.Status
	if err := w.orders.UpdateStatus(ctx, order.ID, input.Status, doc); err != nil {
		return nil, err
	}
	w.metrics.StatusTransition(int(input.Status))

	result := &TransitionResult{Warnings: []Warning{}}
	documentName := ""
	if doc != nil {
		documentName = *doc.Name
	} else if order.PdfEntregaNome != nil {
		documentName = *order.PdfEntregaNome
	}

	w.writeStatusLog(order.ID, fromStatus, input.Status, input.AdminID, documentName, now, &result.Warnings)

	reloaded, err := w.orders.Get(order.ID)
	if err != nil {
		logger.Warnw("pdf_rg_order_reload_failed", "order_id", order.ID, "error", err)
		order.Status = input.Status
		order.UpdatedAt = now
		if doc != nil {
			order.PdfEntregaBase64 = doc.Base64
			order.PdfEntregaNome = doc.Name
		}
		reloaded = order
	}
	result.Order = reloaded

	w.notifyStatusChange(ctx, reloaded, documentName, &result.Warnings)
	w.publish(ctx, constants.EventPdfRgOrderStatusChanged, pdfRgStatusChangedPayload{
		OrderID:      reloaded.ID,
		UserID:       reloaded.UserID,
		FromStatus:   fromStatus,
		ToStatus:     input.Status,
		AdminID:      input.AdminID,
		DocumentName: documentName,
	}, &result.Warnings)
	return result, nil
}

// DeleteOrder 删除订单并发布删除事件
func (w *PdfRgWorkflow) DeleteOrder(ctx context.Context, id uint) error {
	if err := w.orders.Delete(ctx, id); err != nil {
		return err
	}
	var warnings []Warning
	w.publish(ctx, constants.EventPdfRgOrderDeleted, map[string]interface{}{"order_id": id}, &warnings)
	return nil
}

// pdfRgOrderCreatedPayload 下单事件只携带摘要，不含图片与附件内容，证件号脱敏
type pdfRgOrderCreatedPayload struct {
	OrderID          uint               `json:"order_id"`
	UserID           *uint              `json:"user_id"`
	ModuleID         uint               `json:"module_id"`
	CPF              string             `json:"cpf"`
	Status           models.PdfRgStatus `json:"status"`
	QRPlan           string             `json:"qr_plan"`
	PrecoPago        models.Money       `json:"preco_pago"`
	DescontoAplicado models.Money       `json:"desconto_aplicado"`
	Attachments      int                `json:"attachments"`
	CreatedAt        time.Time          `json:"created_at"`
}

func newPdfRgOrderCreatedPayload(order *models.PdfRgOrder) pdfRgOrderCreatedPayload {
	attachments := 0
	for _, raw := range []*string{order.Anexo1Base64, order.Anexo2Base64, order.Anexo3Base64} {
		if raw != nil && strings.TrimSpace(*raw) != "" {
			attachments++
		}
	}
	return pdfRgOrderCreatedPayload{
		OrderID:          order.ID,
		UserID:           order.UserID,
		ModuleID:         order.ModuleID,
		CPF:              logger.MaskCPF(order.CPF),
		Status:           order.Status,
		QRPlan:           order.QRPlan,
		PrecoPago:        order.PrecoPago,
		DescontoAplicado: order.DescontoAplicado,
		Attachments:      attachments,
		CreatedAt:        order.CreatedAt,
	}
}

type pdfRgStatusChangedPayload struct {
	OrderID      uint               `json:"order_id"`
	UserID       *uint              `json:"user_id"`
	FromStatus   models.PdfRgStatus `json:"from_status"`
	ToStatus     models.PdfRgStatus `json:"to_status"`
	AdminID      uint               `json:"admin_id"`
	DocumentName string             `json:"document_name,omitempty"`
}

func (w *PdfRgWorkflow) validateOrderInput(input PdfRgOrderInput) error {
	if NormalizeCPF(input.CPF) == "" {
		return ErrPdfRgCPFRequired
	}
	if plan := strings.ToLower(strings.TrimSpace(input.QRPlan)); plan != "" && !containsFold(w.cfg.AllowedQRPlans, plan) {
		return ErrPdfRgQRPlanInvalid
	}
	if diretor := strings.TrimSpace(input.Diretor); diretor != "" && len(w.cfg.AllowedDiretores) > 0 && !containsFold(w.cfg.AllowedDiretores, diretor) {
		return ErrPdfRgDiretorInvalid
	}

	for _, raw := range []string{input.FotoBase64, input.AssinaturaBase64} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		payload, err := DecodeDataURL(raw, "")
		if err == nil {
			err = validateImagePayload(payload, w.cfg.MaxImageBytes)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPdfRgImageInvalid, err)
		}
	}

	attachments := [][2]string{
		{input.Anexo1Base64, input.Anexo1Nome},
		{input.Anexo2Base64, input.Anexo2Nome},
		{input.Anexo3Base64, input.Anexo3Nome},
	}
	count := 0
	for _, item := range attachments {
		if strings.TrimSpace(item[0]) == "" {
			continue
		}
		count++
		if count > w.cfg.MaxAttachments {
			return fmt.Errorf("%w: too many attachments", ErrPdfRgAttachmentInvalid)
		}
		payload, err := DecodeDataURL(item[0], item[1])
		if err == nil {
			err = validateFilePayload(payload, w.cfg.MaxAttachmentBytes, w.cfg.AllowedAttachmentTypes)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPdfRgAttachmentInvalid, err)
		}
	}
	return nil
}

// ensureFunds 下单前校验套餐余额与钱包余额之和是否足够，负的套餐余额按 0 计
func (w *PdfRgWorkflow) ensureFunds(userID uint, price decimal.Decimal) error {
	plan, wallet, err := w.wallet.AvailableFunds(userID)
	if err != nil {
		logger.Warnw("pdf_rg_available_funds_failed", "user_id", userID, "error", err)
		return err
	}
	if plan.IsNegative() {
		plan = decimal.Zero
	}
	if plan.Add(wallet).LessThan(price) {
		return ErrWalletInsufficientBalance
	}
	return nil
}

func (w *PdfRgWorkflow) settle(ctx context.Context, order *models.PdfRgOrder, result *CreateResult) {
	userID := order.OwnerID()
	settlement, err := w.wallet.ReserveFunds(ReserveFundsInput{
		UserID:  userID,
		OrderID: order.ID,
		Amount:  order.PrecoPago,
		Remark:  "Pedido PDF RG - CPF " + order.CPF,
	})
	if err != nil {
		logger.Warnw("pdf_rg_settlement_failed", "order_id", order.ID, "user_id", userID, "error", err)
		w.metrics.Settlement("unknown", "failed")
		w.addWarning(&result.Warnings, constants.WarningSettlementFailed, err)
		return
	}
	result.Settlement = settlement
	w.metrics.Settlement(settlement.FundingSource, "ok")
	w.metrics.SettledAmount(constants.WalletPoolPlan, settlement.PlanDebit.Decimal.InexactFloat64())
	w.metrics.SettledAmount(constants.WalletPoolMain, settlement.WalletDebit.Decimal.InexactFloat64())

	if w.consultations == nil {
		return
	}
	_, err = w.consultations.RecordSpend(RecordSpendInput{
		UserID:        userID,
		ModuleID:      order.ModuleID,
		Document:      order.CPF,
		Cost:          settlement.Amount,
		FundingSource: settlement.FundingSource,
		ResultID:      order.ID,
		Metadata:      BuildPdfRgSpendMetadata(order.ModuleID, settlement.FundingSource, w.now()),
	})
	if err != nil {
		logger.Warnw("pdf_rg_spend_record_failed", "order_id", order.ID, "user_id", userID, "error", err)
		w.addWarning(&result.Warnings, constants.WarningSpendRecordFailed, err)
	}
}

func (w *PdfRgWorkflow) writeStatusLog(orderID uint, from, to models.PdfRgStatus, adminID uint, documentName string, now time.Time, warnings *[]Warning) {
	if w.statusLogs == nil {
		return
	}
	err := w.statusLogs.Create(&models.PdfRgStatusLog{
		OrderID:      orderID,
		FromStatus:   from,
		ToStatus:     to,
		AdminID:      adminID,
		DocumentName: documentName,
		CreatedAt:    now,
	})
	if err != nil {
		logger.Warnw("pdf_rg_status_log_failed", "order_id", orderID, "error", err)
		w.addWarning(warnings, constants.WarningStatusLogFailed, err)
	}
}

func (w *PdfRgWorkflow) notifyStatusChange(ctx context.Context, order *models.PdfRgOrder, documentName string, warnings *[]Warning) {
	if w.notifications == nil || order.OwnerID() == 0 {
		return
	}
	variables := map[string]interface{}{
		"order_id":      order.ID,
		"status":        order.Status.Label(),
		"document_name": documentName,
	}
	title, message := pdfRgStatusNotifyTitle, pdfRgStatusNotifyMessage
	priority := constants.NotificationPriorityNormal
	if order.Status.IsTerminal() {
		title, message = pdfRgDeliveredNotifyTitle, pdfRgDeliveredNotifyMessage
		priority = constants.NotificationPriorityHigh
	}
	err := w.notifications.Notify(ctx, NotifyInput{
		UserID:   order.OwnerID(),
		Title:    renderNotificationTemplate(title, variables),
		Message:  renderNotificationTemplate(message, variables),
		Priority: priority,
		BizType:  constants.NotificationBizTypePdfRgOrder,
		BizID:    order.ID,
	})
	if err != nil {
		logger.Warnw("pdf_rg_notify_failed", "order_id", order.ID, "user_id", order.OwnerID(), "error", err)
		w.addWarning(warnings, constants.WarningNotifyFailed, err)
	}
}

func (w *PdfRgWorkflow) publish(ctx context.Context, eventType string, payload interface{}, warnings *[]Warning) {
	key := ""
	switch v := payload.(type) {
	case pdfRgOrderCreatedPayload:
		key = fmt.Sprintf("%d", v.OrderID)
	case pdfRgStatusChangedPayload:
		key = fmt.Sprintf("%d", v.OrderID)
	case map[string]interface{}:
		key = fmt.Sprintf("%v", v["order_id"])
	}
	if err := w.publisher.Publish(ctx, messaging.NewEvent(eventType, key, payload)); err != nil {
		logger.Warnw("pdf_rg_event_publish_failed", "event_type", eventType, "key", key, "error", err)
		w.addWarning(warnings, constants.WarningEventPublishFailed, err)
	}
}

func (w *PdfRgWorkflow) addWarning(warnings *[]Warning, code string, err error) {
	w.metrics.Warning(code)
	message := ""
	if err != nil {
		message = err.Error()
	}
	*warnings = append(*warnings, Warning{Code: code, Message: message})
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
