package cache

import (
	"context"
	"fmt"
	"time"
)

const pdfRgSummaryAllKey = "pdf_rg:summary:all"

// PdfRgSummary 订单状态汇总快照，键为状态字符串标识
type PdfRgSummary struct {
	Counts    map[string]int64 `json:"counts"`
	Total     int64            `json:"total"`
	UpdatedAt int64            `json:"updated_at"`
}

func pdfRgSummaryKey(userID uint) string {
	if userID == 0 {
		return pdfRgSummaryAllKey
	}
	return fmt.Sprintf("pdf_rg:summary:user:%d", userID)
}

// GetPdfRgSummary 获取状态汇总，userID 为 0 表示全部订单
func GetPdfRgSummary(ctx context.Context, userID uint) (*PdfRgSummary, bool, error) {
	var summary PdfRgSummary
	hit, err := getJSON(ctx, pdfRgSummaryKey(userID), &summary)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &summary, true, nil
}

// SetPdfRgSummary 写入状态汇总
func SetPdfRgSummary(ctx context.Context, userID uint, summary *PdfRgSummary, ttl time.Duration) error {
	if summary == nil || ttl <= 0 {
		return nil
	}
	return setJSON(ctx, pdfRgSummaryKey(userID), summary, ttl)
}

// InvalidatePdfRgSummary 订单变动后清除全局与所属用户的汇总
func InvalidatePdfRgSummary(ctx context.Context, userID uint) error {
	keys := []string{pdfRgSummaryAllKey}
	if userID != 0 {
		keys = append(keys, pdfRgSummaryKey(userID))
	}
	return del(ctx, keys...)
}
