package config

import "strings"

const (
	defaultPdfRgQRPlan             = "1m"
	defaultPdfRgMaxImageBytes      = 10 * 1024 * 1024
	defaultPdfRgMaxAttachments     = 3
	defaultPdfRgMaxAttachmentBytes = 15 * 1024 * 1024
	defaultPdfRgMaxDocumentBytes   = 20 * 1024 * 1024
	defaultPdfRgAdminPageSize      = 50
	defaultPdfRgBasePrice          = "25.00"
)

func defaultPdfRgQRPlanPrices() map[string]string {
	return map[string]string{"1m": "5.00", "3m": "10.00", "6m": "15.00"}
}

// DefaultPdfRgConfig 返回 PDF RG 默认配置
func DefaultPdfRgConfig() PdfRgConfig {
	return PdfRgConfig{
		DefaultQRPlan:          defaultPdfRgQRPlan,
		AllowedQRPlans:         []string{"1m", "3m", "6m"},
		AllowedDiretores:       []string{"Maranhão", "Piauí", "Goiânia", "Tocantins"},
		MaxImageBytes:          defaultPdfRgMaxImageBytes,
		MaxAttachments:         defaultPdfRgMaxAttachments,
		MaxAttachmentBytes:     defaultPdfRgMaxAttachmentBytes,
		AllowedAttachmentTypes: []string{"image/jpeg", "image/png", "image/gif", "application/pdf"},
		MaxDocumentBytes:       defaultPdfRgMaxDocumentBytes,
		AllowedDocumentTypes:   []string{"application/pdf"},
		AdminPageSize:          defaultPdfRgAdminPageSize,
		SummaryCacheSeconds:    30,
		SummaryRefreshCron:     "@every 1m",
		Pricing: PdfRgPricing{
			BasePrice:    defaultPdfRgBasePrice,
			QRPlanPrices: defaultPdfRgQRPlanPrices(),
		},
	}
}

// Normalize 补齐缺省值并清理列表项
func (c PdfRgConfig) Normalize() PdfRgConfig {
	defaults := DefaultPdfRgConfig()
	c.DefaultQRPlan = strings.ToLower(strings.TrimSpace(c.DefaultQRPlan))
	if c.DefaultQRPlan == "" {
		c.DefaultQRPlan = defaults.DefaultQRPlan
	}
	c.AllowedQRPlans = normalizeList(c.AllowedQRPlans, true)
	if len(c.AllowedQRPlans) == 0 {
		c.AllowedQRPlans = defaults.AllowedQRPlans
	}
	c.AllowedDiretores = normalizeList(c.AllowedDiretores, false)
	c.AllowedAttachmentTypes = normalizeList(c.AllowedAttachmentTypes, true)
	if len(c.AllowedAttachmentTypes) == 0 {
		c.AllowedAttachmentTypes = defaults.AllowedAttachmentTypes
	}
	c.AllowedDocumentTypes = normalizeList(c.AllowedDocumentTypes, true)
	if len(c.AllowedDocumentTypes) == 0 {
		c.AllowedDocumentTypes = defaults.AllowedDocumentTypes
	}
	if c.MaxImageBytes <= 0 {
		c.MaxImageBytes = defaults.MaxImageBytes
	}
	if c.MaxAttachments <= 0 {
		c.MaxAttachments = defaults.MaxAttachments
	}
	if c.MaxAttachmentBytes <= 0 {
		c.MaxAttachmentBytes = defaults.MaxAttachmentBytes
	}
	if c.MaxDocumentBytes <= 0 {
		c.MaxDocumentBytes = defaults.MaxDocumentBytes
	}
	if c.AdminPageSize <= 0 {
		c.AdminPageSize = defaults.AdminPageSize
	}
	if c.SummaryCacheSeconds < 0 {
		c.SummaryCacheSeconds = 0
	}
	c.SummaryRefreshCron = strings.TrimSpace(c.SummaryRefreshCron)
	c.Pricing = c.Pricing.normalize(defaults.Pricing)
	return c
}

func (p PdfRgPricing) normalize(defaults PdfRgPricing) PdfRgPricing {
	p.BasePrice = strings.TrimSpace(p.BasePrice)
	if p.BasePrice == "" {
		p.BasePrice = defaults.BasePrice
	}
	prices := make(map[string]string, len(p.QRPlanPrices))
	for plan, price := range p.QRPlanPrices {
		plan = strings.ToLower(strings.TrimSpace(plan))
		if price = strings.TrimSpace(price); plan != "" && price != "" {
			prices[plan] = price
		}
	}
	if len(prices) == 0 {
		prices = defaults.QRPlanPrices
	}
	p.QRPlanPrices = prices
	return p
}

func normalizeList(items []string, lower bool) []string {
	result := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		value := strings.TrimSpace(item)
		if lower {
			value = strings.ToLower(value)
		}
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

// MaxRequestBytes 单个请求体上限：签名、证件照、全部附件与交付文档按 base64 膨胀后的总和，另留 1MB 给其余字段
func (c PdfRgConfig) MaxRequestBytes() int64 {
	raw := 2*c.MaxImageBytes + int64(c.MaxAttachments)*c.MaxAttachmentBytes + c.MaxDocumentBytes
	return raw/3*4 + 1<<20
}
