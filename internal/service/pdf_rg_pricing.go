package service

import (
	"strings"

	"github.com/consultas-painel/pdfrg/internal/config"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PdfRgQuote 服务端报价，DiscountPercent 为实际生效的订阅折扣
type PdfRgQuote struct {
	BasePrice       decimal.Decimal `json:"base_price"`
	QRPrice         decimal.Decimal `json:"qr_price"`
	Total           decimal.Decimal `json:"total"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// QuotePdfRgOrder 按模块基础价与二维码有效期价格报价，订阅折扣分别作用于两部分后再相加
func QuotePdfRgOrder(pricing config.PdfRgPricing, qrPlan string, discountPercent decimal.Decimal) (PdfRgQuote, error) {
	base, err := decimal.NewFromString(strings.TrimSpace(pricing.BasePrice))
	if err != nil || base.IsNegative() {
		return PdfRgQuote{}, ErrPdfRgPriceUnavailable
	}
	rawQR, ok := pricing.QRPlanPrices[strings.ToLower(strings.TrimSpace(qrPlan))]
	if !ok {
		return PdfRgQuote{}, ErrPdfRgPriceUnavailable
	}
	qr, err := decimal.NewFromString(strings.TrimSpace(rawQR))
	if err != nil || qr.IsNegative() {
		return PdfRgQuote{}, ErrPdfRgPriceUnavailable
	}

	discount := clampPercent(discountPercent)
	quote := PdfRgQuote{
		BasePrice: applyDiscount(base, discount),
		QRPrice:   applyDiscount(qr, discount),
	}
	quote.Total = quote.BasePrice.Add(quote.QRPrice)
	// 基础价为 0 时不记录折扣
	if base.IsPositive() {
		quote.DiscountPercent = discount
	}
	return quote, nil
}

func applyDiscount(price, percent decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() || percent.IsZero() {
		return price.Round(2)
	}
	return price.Mul(hundred.Sub(percent)).Div(hundred).Round(2)
}

func clampPercent(percent decimal.Decimal) decimal.Decimal {
	switch {
	case percent.IsNegative():
		return decimal.Zero
	case percent.GreaterThan(hundred):
		return hundred
	default:
		return percent.Round(2)
	}
}
