package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/models"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const dataURLBase64Marker = ";base64,"

var documentExtensionsByType = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
}

// FilePayload 解码后的文件内容
type FilePayload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Size 文件字节数
func (p *FilePayload) Size() int64 {
	if p == nil {
		return 0
	}
	return int64(len(p.Content))
}

// DataURL 按识别出的类型重新编码为 data URL
func (p *FilePayload) DataURL() string {
	if p == nil {
		return ""
	}
	return EncodeDataURL(p.ContentType, p.Content)
}

// EncodeDataURL 编码为 data:<mime>;base64,<payload>
func EncodeDataURL(contentType string, content []byte) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + dataURLBase64Marker + base64.StdEncoding.EncodeToString(content)
}

// DecodeDataURL 解析 data URL 或裸 base64 字符串，内容类型以文件头识别结果为准
func DecodeDataURL(raw, filename string) (*FilePayload, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, fmt.Errorf("empty payload")
	}
	if strings.HasPrefix(value, "data:") {
		idx := strings.Index(value, dataURLBase64Marker)
		if idx < 0 {
			return nil, fmt.Errorf("data url must be base64 encoded")
		}
		value = value[idx+len(dataURLBase64Marker):]
	}
	content, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return &FilePayload{
		Filename:    strings.TrimSpace(filename),
		ContentType: detectContentType(content),
		Content:     content,
	}, nil
}

// ReadMultipartFile 读取上传文件，超过 maxBytes 时返回错误
func ReadMultipartFile(file *multipart.FileHeader, maxBytes int64) (*FilePayload, error) {
	if file == nil {
		return nil, fmt.Errorf("file is required")
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return nil, fmt.Errorf("文件大小超过限制（最大 %d MB）", maxBytes/1024/1024)
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	reader := io.Reader(src)
	if maxBytes > 0 {
		reader = io.LimitReader(src, maxBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("文件大小超过限制（最大 %d MB）", maxBytes/1024/1024)
	}
	return &FilePayload{
		Filename:    filepath.Base(strings.TrimSpace(file.Filename)),
		ContentType: detectContentType(content),
		Content:     content,
	}, nil
}

// validateFilePayload 校验大小与类型
func validateFilePayload(payload *FilePayload, maxBytes int64, allowedTypes []string) error {
	if payload == nil || len(payload.Content) == 0 {
		return fmt.Errorf("文件内容为空")
	}
	if maxBytes > 0 && payload.Size() > maxBytes {
		return fmt.Errorf("文件大小超过限制（最大 %d MB）", maxBytes/1024/1024)
	}
	if len(allowedTypes) > 0 && !isAllowedContentType(payload.ContentType, allowedTypes) {
		return fmt.Errorf("文件类型不被允许: %s", payload.ContentType)
	}
	return nil
}

// validateImagePayload 校验图片大小并确认可以解码
func validateImagePayload(payload *FilePayload, maxBytes int64) error {
	if err := validateFilePayload(payload, maxBytes, nil); err != nil {
		return err
	}
	if !strings.HasPrefix(payload.ContentType, "image/") {
		return fmt.Errorf("文件类型不被允许: %s", payload.ContentType)
	}
	if _, _, err := decodeImageDimensions(bytes.NewReader(payload.Content)); err != nil {
		return err
	}
	return nil
}

// BuildDeliveredDocumentName 生成交付文档文件名 pdf_rg_<用户ID|anon>_<cpf>_<时间戳><扩展名>
func BuildDeliveredDocumentName(order *models.PdfRgOrder, payload *FilePayload, now time.Time) string {
	owner := "anon"
	cpf := ""
	if order != nil {
		if id := order.OwnerID(); id != 0 {
			owner = fmt.Sprintf("%d", id)
		}
		cpf = models.DigitsOnly(order.CPF)
	}
	ext := ".pdf"
	if payload != nil {
		ext = documentExtension(payload.Filename, payload.ContentType)
	}
	return fmt.Sprintf("pdf_rg_%s_%s_%s%s", owner, cpf, now.Format("20060102150405"), ext)
}

func documentExtension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if ext != "" && len(ext) <= 6 {
		return ext
	}
	if mapped, ok := documentExtensionsByType[strings.ToLower(strings.TrimSpace(contentType))]; ok {
		return mapped
	}
	return ".pdf"
}

func detectContentType(content []byte) string {
	head := content
	if len(head) > 512 {
		head = head[:512]
	}
	contentType := http.DetectContentType(head)
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(strings.TrimSpace(t), contentType) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析图片: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
