package public

import (
	handlershared "github.com/consultas-painel/pdfrg/internal/http/handlers/shared"
	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetMyWallet 获取当前用户钱包信息
func (h *Handler) GetMyWallet(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	account, err := h.WalletService.GetAccount(uid)
	if err != nil {
		respondWalletError(c, err)
		return
	}
	response.Success(c, account)
}

// GetMyWalletTransactions 获取当前用户钱包流水
func (h *Handler) GetMyWalletTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	filter := handlershared.WalletTransactionQuery(c, uid)
	transactions, total, err := h.WalletService.ListTransactions(filter)
	if err != nil {
		respondWalletError(c, err)
		return
	}
	response.Page(c, transactions, filter.Page, filter.PageSize, total)
}

// GetMyConsultations 获取当前用户模块消费记录
func (h *Handler) GetMyConsultations(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePageQuery(c, 20)

	records, total, err := h.ConsultationService.ListByUser(repository.ConsultationListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
	})
	if err != nil {
		respondWalletError(c, err)
		return
	}
	response.Page(c, records, page, pageSize, total)
}
