package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 业务状态码，HTTP 状态固定为 200，前端按 status_code 分支
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

const requestIDKey = "request_id"

// Envelope 统一响应结构
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 根据总数计算总页数
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMsg(c, "success", data)
}

// SuccessWithMsg 成功响应（自定义消息，一般为本地化后的操作结果）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{StatusCode: CodeOK, Msg: msg, Data: data})
}

// Page 分页成功响应
func Page(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	pagination := NewPagination(page, pageSize, total)
	c.JSON(http.StatusOK, Envelope{
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
		Pagination: &pagination,
	})
}

// Fail 错误响应，data 中附带 request_id 便于排查
func Fail(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, Envelope{StatusCode: code, Msg: msg, Data: errorData(c, nil)})
}

// TooManyRequests 限流响应，同时写入 Retry-After 头
func TooManyRequests(c *gin.Context, msg string, retryAfterSeconds int) {
	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	c.JSON(http.StatusOK, Envelope{
		StatusCode: CodeTooManyRequests,
		Msg:        msg,
		Data:       errorData(c, gin.H{"retry_after": retryAfterSeconds}),
	})
}

func errorData(c *gin.Context, extra gin.H) interface{} {
	id := c.GetString(requestIDKey)
	if id == "" {
		if extra == nil {
			return nil
		}
		return extra
	}
	if extra == nil {
		extra = gin.H{}
	}
	extra[requestIDKey] = id
	return extra
}
