package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	return NormalizePaginationWithDefault(page, pageSize, 20)
}

// NormalizePaginationWithDefault 归一化分页参数，page_size 缺省时使用 defaultSize。
func NormalizePaginationWithDefault(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// ParsePageQuery 读取 page / page_size 查询参数
func ParsePageQuery(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return NormalizePaginationWithDefault(page, pageSize, defaultSize)
}

// PageOffset 计算分页偏移量
func PageOffset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}
