package shared

import (
	"errors"

	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/i18n"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 携带 request_id 的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c != nil {
		if id := c.GetString("request_id"); id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 按语言返回错误文案。err 非空时视为非预期错误并记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message_key", key,
			"path", c.FullPath(),
			"error", err,
		)
	}
	response.Fail(c, code, i18n.T(i18n.ResolveLocale(c), key))
}

// ErrorRule 业务错误到响应码与文案键的映射
type ErrorRule struct {
	Target error
	Code   int
	Key    string
}

// ErrorRules 一组映射规则及未命中时的兜底文案
type ErrorRules struct {
	Rules       []ErrorRule
	FallbackKey string
}

// Respond 按规则返回错误响应，未命中时返回 500 并记录原始错误
func (r ErrorRules) Respond(c *gin.Context, err error) {
	for _, rule := range r.Rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, r.FallbackKey, err)
}

var walletRules = []ErrorRule{
	{Target: service.ErrWalletInvalidAmount, Code: response.CodeBadRequest, Key: "error.wallet_amount_invalid"},
	{Target: service.ErrWalletInvalidPool, Code: response.CodeBadRequest, Key: "error.wallet_pool_invalid"},
	{Target: service.ErrWalletInsufficientBalance, Code: response.CodeBadRequest, Key: "error.wallet_insufficient"},
	{Target: service.ErrWalletAccountNotFound, Code: response.CodeBadRequest, Key: "error.user_id_invalid"},
}

// PdfRgErrors PDF RG 订单错误映射，下单时的钱包错误一并处理
var PdfRgErrors = ErrorRules{
	Rules: append([]ErrorRule{
		{Target: service.ErrPdfRgCPFRequired, Code: response.CodeBadRequest, Key: "error.pdf_rg_cpf_required"},
		{Target: service.ErrPdfRgInvalidStatus, Code: response.CodeBadRequest, Key: "error.pdf_rg_status_invalid"},
		{Target: service.ErrPdfRgQRPlanInvalid, Code: response.CodeBadRequest, Key: "error.pdf_rg_qr_plan_invalid"},
		{Target: service.ErrPdfRgDiretorInvalid, Code: response.CodeBadRequest, Key: "error.pdf_rg_diretor_invalid"},
		{Target: service.ErrPdfRgAttachmentInvalid, Code: response.CodeBadRequest, Key: "error.pdf_rg_attachment"},
		{Target: service.ErrPdfRgImageInvalid, Code: response.CodeBadRequest, Key: "error.pdf_rg_image_invalid"},
		{Target: service.ErrPdfRgDocumentRequired, Code: response.CodeBadRequest, Key: "error.pdf_rg_document_req"},
		{Target: service.ErrPdfRgDocumentInvalid, Code: response.CodeBadRequest, Key: "error.pdf_rg_document"},
		{Target: service.ErrPdfRgOrderNotFound, Code: response.CodeNotFound, Key: "error.pdf_rg_order_not_found"},
		{Target: service.ErrPdfRgPriceMismatch, Code: response.CodeBadRequest, Key: "error.pdf_rg_price_mismatch"},
		{Target: service.ErrPdfRgPriceUnavailable, Code: response.CodeInternal, Key: "error.pdf_rg_price_unavail"},
	}, walletRules...),
	FallbackKey: "error.pdf_rg_order_failed",
}

// WalletErrors 钱包错误映射
var WalletErrors = ErrorRules{Rules: walletRules, FallbackKey: "error.wallet_failed"}

// NotificationErrors 站内通知错误映射
var NotificationErrors = ErrorRules{
	Rules: []ErrorRule{
		{Target: service.ErrNotificationNotFound, Code: response.CodeNotFound, Key: "error.notification_not_found"},
		{Target: service.ErrNotificationInvalid, Code: response.CodeBadRequest, Key: "error.bad_request"},
	},
	FallbackKey: "error.notification_failed",
}
