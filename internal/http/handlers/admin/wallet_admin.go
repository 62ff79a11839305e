package admin

import (
	"strings"

	handlershared "github.com/consultas-painel/pdfrg/internal/http/handlers/shared"
	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminAdjustUserWalletRequest 管理端用户余额调整请求
type AdminAdjustUserWalletRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Operation string `json:"operation"`                 // add/subtract
	Pool      string `json:"pool"`                      // main/plan
	Remark    string `json:"remark"`
}

// signedDelta 按 operation 转为带符号的变动额，失败时返回错误消息 key
func (r AdminAdjustUserWalletRequest) signedDelta() (decimal.Decimal, string) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, "error.wallet_amount_invalid"
	}
	switch strings.ToLower(strings.TrimSpace(r.Operation)) {
	case "", "add":
		return amount, ""
	case "subtract":
		return amount.Neg(), ""
	default:
		return decimal.Zero, "error.bad_request"
	}
}

// GetAdminUserWallet 管理端获取用户钱包信息
func (h *Handler) GetAdminUserWallet(c *gin.Context) {
	userID, ok := parsePathUint(c, "user_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}
	account, err := h.WalletService.GetAccount(userID)
	if err != nil {
		respondWalletError(c, err)
		return
	}
	response.Success(c, account)
}

// GetAdminUserWalletTransactions 管理端获取用户钱包流水
func (h *Handler) GetAdminUserWalletTransactions(c *gin.Context) {
	userID, ok := parsePathUint(c, "user_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}
	orderID, ok := parseQueryUint(c, "order_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}
	filter := handlershared.WalletTransactionQuery(c, userID)
	if orderID != nil {
		filter.OrderID = *orderID
	}
	transactions, total, err := h.WalletService.ListTransactions(filter)
	if err != nil {
		respondWalletError(c, err)
		return
	}
	response.Page(c, transactions, filter.Page, filter.PageSize, total)
}

// AdjustAdminUserWallet 管理端增减用户余额
func (h *Handler) AdjustAdminUserWallet(c *gin.Context) {
	userID, ok := parsePathUint(c, "user_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}
	var req AdminAdjustUserWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	delta, key := req.signedDelta()
	if key != "" {
		respondError(c, response.CodeBadRequest, key, nil)
		return
	}

	account, txn, err := h.WalletService.AdminAdjust(service.WalletAdjustInput{
		UserID: userID,
		Pool:   req.Pool,
		Delta:  models.NewMoneyFromDecimal(delta),
		Remark: strings.TrimSpace(req.Remark),
	})
	if err != nil {
		respondWalletError(c, err)
		return
	}
	response.Success(c, gin.H{
		"account":     account,
		"transaction": txn,
	})
}
