package models

import (
	"strconv"
	"strings"
	"time"
)

// PdfRgStatus PDF RG 订单履约状态
type PdfRgStatus int

const (
	PdfRgStatusCreated          PdfRgStatus = 1 // 已下单
	PdfRgStatusPaymentConfirmed PdfRgStatus = 2 // 已确认付款
	PdfRgStatusInProduction     PdfRgStatus = 3 // 制作中
	PdfRgStatusDelivered        PdfRgStatus = 4 // 已交付（终态）
)

var pdfRgStatusKeys = map[PdfRgStatus]string{
	PdfRgStatusCreated:          "realizado",
	PdfRgStatusPaymentConfirmed: "pagamento_confirmado",
	PdfRgStatusInProduction:     "em_confeccao",
	PdfRgStatusDelivered:        "entregue",
}

var pdfRgStatusLabels = map[PdfRgStatus]string{
	PdfRgStatusCreated:          "Pedido Realizado",
	PdfRgStatusPaymentConfirmed: "Pagamento Confirmado",
	PdfRgStatusInProduction:     "Em Confecção",
	PdfRgStatusDelivered:        "Entregue",
}

// PdfRgStatuses 按生命周期顺序返回全部状态
func PdfRgStatuses() []PdfRgStatus {
	return []PdfRgStatus{
		PdfRgStatusCreated,
		PdfRgStatusPaymentConfirmed,
		PdfRgStatusInProduction,
		PdfRgStatusDelivered,
	}
}

// Valid 是否为合法状态
func (s PdfRgStatus) Valid() bool {
	_, ok := pdfRgStatusKeys[s]
	return ok
}

// Key 状态字符串标识
func (s PdfRgStatus) Key() string {
	return pdfRgStatusKeys[s]
}

// Label 状态展示名称
func (s PdfRgStatus) Label() string {
	return pdfRgStatusLabels[s]
}

// IsTerminal 是否为终态
func (s PdfRgStatus) IsTerminal() bool {
	return s == PdfRgStatusDelivered
}

// ParsePdfRgStatus 解析状态，支持整数值与字符串标识
func ParsePdfRgStatus(raw string) (PdfRgStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(normalized); err == nil {
		status := PdfRgStatus(n)
		return status, status.Valid()
	}
	for status, key := range pdfRgStatusKeys {
		if key == normalized {
			return status, true
		}
	}
	return 0, false
}

// PdfRgOrder PDF RG 订单表
type PdfRgOrder struct {
	ID               uint        `gorm:"primarykey" json:"id"`                                                // 主键
	ModuleID         uint        `gorm:"index;not null;default:0" json:"module_id"`                           // 计价模块ID
	UserID           *uint       `gorm:"index" json:"user_id"`                                                // 下单用户（后台创建时可为空）
	CPF              string      `gorm:"column:cpf;type:varchar(14);index;not null" json:"cpf"`               // 证件号（仅数字）
	Nome             *string     `gorm:"type:varchar(255);index" json:"nome"`                                 // 姓名
	DtNascimento     *string     `gorm:"type:varchar(32)" json:"dt_nascimento"`                               // 出生日期
	Naturalidade     *string     `gorm:"type:varchar(255)" json:"naturalidade"`                               // 籍贯
	FiliacaoMae      *string     `gorm:"type:varchar(255)" json:"filiacao_mae"`                               // 母亲姓名
	FiliacaoPai      *string     `gorm:"type:varchar(255)" json:"filiacao_pai"`                               // 父亲姓名
	Diretor          *string     `gorm:"type:varchar(64)" json:"diretor"`                                     // 签发主管
	AssinaturaBase64 *string     `gorm:"type:text" json:"assinatura_base64,omitempty"`                        // 签名图片
	FotoBase64       *string     `gorm:"type:text" json:"foto_base64,omitempty"`                              // 证件照
	Anexo1Base64     *string     `gorm:"column:anexo1_base64;type:text" json:"anexo1_base64,omitempty"`       // 附件1
	Anexo1Nome       *string     `gorm:"column:anexo1_nome;type:varchar(255)" json:"anexo1_nome"`             // 附件1文件名
	Anexo2Base64     *string     `gorm:"column:anexo2_base64;type:text" json:"anexo2_base64,omitempty"`       // 附件2
	Anexo2Nome       *string     `gorm:"column:anexo2_nome;type:varchar(255)" json:"anexo2_nome"`             // 附件2文件名
	Anexo3Base64     *string     `gorm:"column:anexo3_base64;type:text" json:"anexo3_base64,omitempty"`       // 附件3
	Anexo3Nome       *string     `gorm:"column:anexo3_nome;type:varchar(255)" json:"anexo3_nome"`             // 附件3文件名
	QRPlan           string      `gorm:"column:qr_plan;type:varchar(8);not null;default:'1m'" json:"qr_plan"` // 二维码有效期
	PrecoPago        Money       `gorm:"type:decimal(20,2);not null;default:0" json:"preco_pago"`             // 实付金额
	DescontoAplicado Money       `gorm:"type:decimal(20,2);not null;default:0" json:"desconto_aplicado"`      // 折扣百分比
	Status           PdfRgStatus `gorm:"index;not null;default:1" json:"status"`                              // 履约状态
	PdfEntregaBase64 *string     `gorm:"type:text" json:"pdf_entrega_base64,omitempty"`                       // 交付文档
	PdfEntregaNome   *string     `gorm:"type:varchar(255)" json:"pdf_entrega_nome"`                           // 交付文档文件名
	CreatedAt        time.Time   `gorm:"index" json:"created_at"`                                             // 创建时间
	UpdatedAt        time.Time   `gorm:"index" json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (PdfRgOrder) TableName() string {
	return "pdf_rg_pedidos"
}

// OwnerID 返回下单用户ID，无归属时为 0
func (o *PdfRgOrder) OwnerID() uint {
	if o == nil || o.UserID == nil {
		return 0
	}
	return *o.UserID
}

// HasDeliveredDocument 是否已上传交付文档
func (o *PdfRgOrder) HasDeliveredDocument() bool {
	if o == nil || o.PdfEntregaNome == nil {
		return false
	}
	return strings.TrimSpace(*o.PdfEntregaNome) != ""
}

// PdfRgOrderListColumns 列表查询投影，不含附件与交付文档内容
var PdfRgOrderListColumns = []string{
	"id",
	"module_id",
	"user_id",
	"cpf",
	"nome",
	"dt_nascimento",
	"naturalidade",
	"filiacao_mae",
	"filiacao_pai",
	"diretor",
	"anexo1_nome",
	"anexo2_nome",
	"anexo3_nome",
	"qr_plan",
	"preco_pago",
	"desconto_aplicado",
	"status",
	"pdf_entrega_nome",
	"created_at",
	"updated_at",
}

// DeliveredDocument 交付文档的可选更新字段，nil 表示不修改
type DeliveredDocument struct {
	Base64 *string
	Name   *string
}

// IsEmpty 是否没有任何待更新字段
func (d *DeliveredDocument) IsEmpty() bool {
	return d == nil || (d.Base64 == nil && d.Name == nil)
}

// DigitsOnly 仅保留数字字符
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, ch := range value {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
