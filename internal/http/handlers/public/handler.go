package public

import (
	handlershared "github.com/consultas-painel/pdfrg/internal/http/handlers/shared"
	"github.com/consultas-painel/pdfrg/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 用户侧接口处理器，所有接口只访问当前登录用户自己的数据
type Handler struct {
	*provider.Container
}

// New 创建用户侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.ActorID(c, handlershared.UserIDKey, "error.user_id_invalid")
}

func parsePathUint(c *gin.Context, key string) (uint, bool) {
	return handlershared.PathID(c, key)
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

func respondNotificationError(c *gin.Context, err error) {
	handlershared.NotificationErrors.Respond(c, err)
}
