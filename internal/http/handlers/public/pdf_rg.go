package public

import (
	"strings"

	handlershared "github.com/consultas-painel/pdfrg/internal/http/handlers/shared"
	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/i18n"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/gin-gonic/gin"
)

// CreatePdfRgOrder 用户提交 PDF RG 订单
func (h *Handler) CreatePdfRgOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req handlershared.PdfRgOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input := req.ToInput(&uid)
	input.SubscriptionDiscount = handlershared.SubscriptionDiscount(c)
	result, err := h.PdfRgWorkflow.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	if len(result.Warnings) > 0 {
		handlershared.RequestLog(c).Warnw("pdf_rg_order_created_with_warnings",
			"order_id", result.Order.ID,
			"warnings", result.Warnings,
		)
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.pdf_rg_created"), result)
}

// ListMyPdfRgOrders 当前用户的 PDF RG 订单列表
func (h *Handler) ListMyPdfRgOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	filter, page, pageSize, ok := parsePdfRgListQuery(c, 20)
	if !ok {
		return
	}
	filter.UserID = &uid

	orders, err := h.PdfRgOrderService.List(filter)
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	total, err := h.PdfRgOrderService.Count(filter)
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	response.Page(c, orders, page, pageSize, total)
}

// GetMyPdfRgOrder 当前用户的 PDF RG 订单详情（含交付文档）
func (h *Handler) GetMyPdfRgOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}
	order, err := h.PdfRgOrderService.Get(id)
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	if order.OwnerID() != uid {
		respondError(c, response.CodeNotFound, "error.pdf_rg_order_not_found", nil)
		return
	}
	response.Success(c, order)
}

// GetMyPdfRgSummary 当前用户订单状态汇总
func (h *Handler) GetMyPdfRgSummary(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	summary, err := h.PdfRgOrderService.Summary(c.Request.Context(), &uid)
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	response.Success(c, summary)
}

func parsePdfRgListQuery(c *gin.Context, defaultSize int) (repository.PdfRgOrderListFilter, int, int, bool) {
	page, pageSize := handlershared.ParsePageQuery(c, defaultSize)
	filter := repository.PdfRgOrderListFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  pageSize,
		Offset: handlershared.PageOffset(page, pageSize),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, valid := models.ParsePdfRgStatus(raw)
		if !valid {
			respondError(c, response.CodeBadRequest, "error.pdf_rg_status_invalid", nil)
			return filter, page, pageSize, false
		}
		filter.Status = &status
	}
	return filter, page, pageSize, true
}
