package admin

import (
	handlershared "github.com/consultas-painel/pdfrg/internal/http/handlers/shared"
	"github.com/consultas-painel/pdfrg/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 后台接口处理器，依赖管理员 JWT 中间件写入的 admin_id
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.ActorID(c, handlershared.AdminIDKey, "error.admin_id_invalid")
}

func parsePathUint(c *gin.Context, key string) (uint, bool) {
	return handlershared.PathID(c, key)
}

func parseQueryUint(c *gin.Context, key string) (*uint, bool) {
	return handlershared.QueryID(c, key)
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondPdfRgError(c *gin.Context, err error) {
	handlershared.PdfRgErrors.Respond(c, err)
}

func respondWalletError(c *gin.Context, err error) {
	handlershared.WalletErrors.Respond(c, err)
}
