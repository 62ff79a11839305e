package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	handlershared "github.com/consultas-painel/pdfrg/internal/http/handlers/shared"
	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/i18n"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"
	"github.com/consultas-painel/pdfrg/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminCreatePdfRgOrderRequest 后台录单请求
type AdminCreatePdfRgOrderRequest struct {
	handlershared.PdfRgOrderRequest
	UserID *uint                        `json:"user_id"`
	Status handlershared.FlexibleString `json:"status"`
}

// AdminUpdatePdfRgStatusRequest JSON 方式更新状态
type AdminUpdatePdfRgStatusRequest struct {
	Status         handlershared.FlexibleString `json:"status"`
	DocumentBase64 string                       `json:"document_base64"`
	DocumentName   string                       `json:"document_name"`
}

// GetAdminPdfRgOrders 后台订单列表
func (h *Handler) GetAdminPdfRgOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePageQuery(c, h.Config.PdfRg.AdminPageSize)
	filter := repository.PdfRgOrderListFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  pageSize,
		Offset: handlershared.PageOffset(page, pageSize),
	}
	userID, ok := parseQueryUint(c, "user_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}
	filter.UserID = userID
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, valid := models.ParsePdfRgStatus(raw)
		if !valid {
			respondError(c, response.CodeBadRequest, "error.pdf_rg_status_invalid", nil)
			return
		}
		filter.Status = &status
	}

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

// GetAdminPdfRgSummary 后台订单状态汇总
func (h *Handler) GetAdminPdfRgSummary(c *gin.Context) {
	userID, ok := parseQueryUint(c, "user_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}
	summary, err := h.PdfRgOrderService.Summary(c.Request.Context(), userID)
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	response.Success(c, summary)
}

// GetAdminPdfRgOrder 后台订单详情
func (h *Handler) GetAdminPdfRgOrder(c *gin.Context) {
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
	response.Success(c, order)
}

// CreateAdminPdfRgOrder 后台录单，不扣款
func (h *Handler) CreateAdminPdfRgOrder(c *gin.Context) {
	var req AdminCreatePdfRgOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input := req.ToInput(req.UserID)
	if raw := req.Status.String(); raw != "" {
		status, valid := models.ParsePdfRgStatus(raw)
		if !valid {
			respondError(c, response.CodeBadRequest, "error.pdf_rg_status_invalid", nil)
			return
		}
		input.Status = status
	}
	result, err := h.PdfRgWorkflow.AdminCreateOrder(c.Request.Context(), input)
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.pdf_rg_created"), result)
}

// UpdateAdminPdfRgStatus 更新订单状态，支持 multipart 上传交付文档或 JSON 提交 base64
func (h *Handler) UpdateAdminPdfRgStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	var rawStatus string
	var document *service.FilePayload
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		rawStatus = c.PostForm("status")
		file, err := c.FormFile("file")
		switch {
		case err == nil:
			payload, readErr := service.ReadMultipartFile(file, h.Config.PdfRg.MaxDocumentBytes)
			if readErr != nil {
				respondPdfRgError(c, fmt.Errorf("%w: %v", service.ErrPdfRgDocumentInvalid, readErr))
				return
			}
			document = payload
		case !errors.Is(err, http.ErrMissingFile):
			respondError(c, response.CodeBadRequest, "error.file_read_failed", err)
			return
		}
	} else {
		var req AdminUpdatePdfRgStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		rawStatus = req.Status.String()
		if strings.TrimSpace(req.DocumentBase64) != "" {
			payload, err := service.DecodeDataURL(req.DocumentBase64, req.DocumentName)
			if err != nil {
				respondPdfRgError(c, fmt.Errorf("%w: %v", service.ErrPdfRgDocumentInvalid, err))
				return
			}
			document = payload
		}
	}

	status, valid := models.ParsePdfRgStatus(rawStatus)
	if !valid {
		respondError(c, response.CodeBadRequest, "error.pdf_rg_status_invalid", nil)
		return
	}
	result, err := h.PdfRgWorkflow.TransitionStatus(c.Request.Context(), service.TransitionInput{
		OrderID:  id,
		Status:   status,
		AdminID:  adminID,
		Document: document,
	})
	if err != nil {
		respondPdfRgError(c, err)
		return
	}
	if len(result.Warnings) > 0 {
		requestLog(c).Warnw("pdf_rg_status_updated_with_warnings",
			"order_id", id,
			"admin_id", adminID,
			"warnings", result.Warnings,
		)
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.pdf_rg_status"), result)
}

// DeleteAdminPdfRgOrder 删除订单
func (h *Handler) DeleteAdminPdfRgOrder(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}
	if err := h.PdfRgWorkflow.DeleteOrder(c.Request.Context(), id); err != nil {
		respondPdfRgError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.pdf_rg_deleted"), gin.H{"id": id})
}

// GetAdminPdfRgStatusLogs 订单状态变更记录
func (h *Handler) GetAdminPdfRgStatusLogs(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}
	logs, err := h.PdfRgStatusLogRepo.ListByOrder(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.pdf_rg_order_failed", err)
		return
	}
	response.Success(c, logs)
}
