package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocalePtBR = "pt-BR"
	LocaleEnUS = "en-US"

	DefaultLocale = LocalePtBR
)

const localeHeader = "X-Locale"

var supportedTags = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supportedTags)

// ResolveLocale 按 query lang、X-Locale、Accept-Language 的顺序解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := NormalizeLocale(c.Query("lang")); locale != "" {
		return locale
	}
	if locale := NormalizeLocale(c.GetHeader(localeHeader)); locale != "" {
		return locale
	}
	accept := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if accept == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	return matchLocale(tags...)
}

// NormalizeLocale 将任意语言标识映射为支持的语言，无法识别时返回空串
func NormalizeLocale(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	tag, err := language.Parse(value)
	if err != nil {
		return ""
	}
	return matchLocale(tag)
}

func matchLocale(tags ...language.Tag) string {
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	if index == 1 {
		return LocaleEnUS
	}
	return LocalePtBR
}

// T 翻译消息，缺失时回退到默认语言，再缺失返回 key 本身
func T(locale, key string) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
