package shared

import (
	"strconv"
	"strings"

	"github.com/consultas-painel/pdfrg/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// 鉴权中间件写入上下文的身份键
const (
	AdminIDKey              = "admin_id"
	UserIDKey               = "user_id"
	SubscriptionDiscountKey = "subscription_discount"
)

// ActorID 读取鉴权中间件写入的身份 ID。缺失时返回未授权，类型或取值异常时返回 invalidKey。
func ActorID(c *gin.Context, key, invalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		RespondError(c, response.CodeUnauthorized, invalidKey, nil)
		return 0, false
	}
	return id, true
}

// SubscriptionDiscount 读取令牌中的订阅折扣，缺失时为 0
func SubscriptionDiscount(c *gin.Context) decimal.Decimal {
	value, exists := c.Get(SubscriptionDiscountKey)
	if !exists {
		return decimal.Zero
	}
	discount, ok := value.(decimal.Decimal)
	if !ok {
		return decimal.Zero
	}
	return discount
}

// PathID 解析路径中的正整数 ID
func PathID(c *gin.Context, key string) (uint, bool) {
	return parsePositiveUint(c.Param(key))
}

// QueryID 解析可选的正整数查询参数，缺省时返回 nil, true
func QueryID(c *gin.Context, key string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	id, ok := parsePositiveUint(raw)
	if !ok {
		return nil, false
	}
	return &id, true
}

func parsePositiveUint(raw string) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
