package router

import (
	"strings"

	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// 令牌由统一登录服务签发，本服务只做校验

// AdminClaims 管理端令牌声明
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserClaims 用户端令牌声明
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	// SubscriptionDiscount 订阅折扣百分比，十进制字符串
	SubscriptionDiscount string `json:"subscription_discount,omitempty"`
	jwt.RegisteredClaims
}

var tokenParser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

// JWTAuthMiddleware 管理端 JWT 鉴权中间件
func JWTAuthMiddleware(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims AdminClaims
		if !bindBearerClaims(c, secretKey, &claims) {
			return
		}
		if claims.AdminID == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
func UserJWTAuthMiddleware(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims UserClaims
		if !bindBearerClaims(c, secretKey, &claims) {
			return
		}
		if claims.UserID == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("subscription_discount", parseSubscriptionDiscount(claims.SubscriptionDiscount))
		c.Next()
	}
}

// parseSubscriptionDiscount 非法或负数折扣按 0 处理
func parseSubscriptionDiscount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	discount, err := decimal.NewFromString(raw)
	if err != nil || discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// bindBearerClaims 校验 Authorization: Bearer 令牌并填充 claims，失败时已写出响应
func bindBearerClaims(c *gin.Context, secretKey string, claims jwt.Claims) bool {
	if strings.TrimSpace(secretKey) == "" {
		abortUnauthorized(c, "error.jwt_secret_missing")
		return false
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		abortUnauthorized(c, "error.auth_header_missing")
		return false
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		abortUnauthorized(c, "error.auth_header_invalid")
		return false
	}
	_, err := tokenParser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		abortUnauthorized(c, "error.token_invalid")
		return false
	}
	return true
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Fail(c, response.CodeUnauthorized, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}
