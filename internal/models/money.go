package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money 金额（雷亚尔，固定 2 位小数）。JSON 输出为字符串，避免前端浮点误差。
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// ZeroMoney 零金额
func ZeroMoney() Money {
	return Money{Decimal: decimal.Zero}
}

// ParseMoney 解析金额文本，接受 "29.90" 与巴西写法 "29,90"
func ParseMoney(raw string) (Money, error) {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, ",") && !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return ZeroMoney(), err
	}
	return NewMoneyFromDecimal(d), nil
}

// ParseMoneyOrZero 宽松解析，空值、非法值与负数均按 0 处理
func ParseMoneyOrZero(raw string) Money {
	m, err := ParseMoney(raw)
	if err != nil || m.IsNegative() {
		return ZeroMoney()
	}
	return m
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// MarshalJSON 输出 "0.00" 形式的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 同时接受字符串与数字，null 保持零值
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '"' {
		var d decimal.Decimal
		if err := d.UnmarshalJSON(b); err != nil {
			return err
		}
		*m = NewMoneyFromDecimal(d)
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return err
	}
	parsed, err := ParseMoney(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value 写库前统一舍入
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan 读库后统一舍入
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
