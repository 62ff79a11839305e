package shared

import (
	"strings"

	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/gin-gonic/gin"
)

const defaultWalletPageSize = 20

// WalletTransactionQuery 读取钱包流水筛选参数（type / pool / direction / 分页）
func WalletTransactionQuery(c *gin.Context, userID uint) repository.WalletTransactionListFilter {
	page, pageSize := ParsePageQuery(c, defaultWalletPageSize)
	return repository.WalletTransactionListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		Type:      strings.TrimSpace(c.Query("type")),
		Pool:      strings.TrimSpace(c.Query("pool")),
		Direction: strings.TrimSpace(c.Query("direction")),
	}
}
