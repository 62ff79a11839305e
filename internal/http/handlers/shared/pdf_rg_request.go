package shared

import "github.com/consultas-painel/pdfrg/internal/service"

// PdfRgOrderRequest PDF RG 下单请求
type PdfRgOrderRequest struct {
	ModuleID         FlexibleString `json:"module_id"`
	CPF              string         `json:"cpf"`
	Nome             string         `json:"nome"`
	DtNascimento     string         `json:"dt_nascimento"`
	Naturalidade     string         `json:"naturalidade"`
	FiliacaoMae      string         `json:"filiacao_mae"`
	FiliacaoPai      string         `json:"filiacao_pai"`
	Diretor          string         `json:"diretor"`
	AssinaturaBase64 string         `json:"assinatura_base64"`
	FotoBase64       string         `json:"foto_base64"`
	Anexo1Base64     string         `json:"anexo1_base64"`
	Anexo1Nome       string         `json:"anexo1_nome"`
	Anexo2Base64     string         `json:"anexo2_base64"`
	Anexo2Nome       string         `json:"anexo2_nome"`
	Anexo3Base64     string         `json:"anexo3_base64"`
	Anexo3Nome       string         `json:"anexo3_nome"`
	QRPlan           string         `json:"qr_plan"`
	PrecoPago        FlexibleString `json:"preco_pago"`
	DescontoAplicado FlexibleString `json:"desconto_aplicado"`
}

// ToInput 转换为服务层输入
func (r PdfRgOrderRequest) ToInput(userID *uint) service.PdfRgOrderInput {
	return service.PdfRgOrderInput{
		UserID:           userID,
		ModuleID:         r.ModuleID.String(),
		CPF:              r.CPF,
		Nome:             r.Nome,
		DtNascimento:     r.DtNascimento,
		Naturalidade:     r.Naturalidade,
		FiliacaoMae:      r.FiliacaoMae,
		FiliacaoPai:      r.FiliacaoPai,
		Diretor:          r.Diretor,
		AssinaturaBase64: r.AssinaturaBase64,
		FotoBase64:       r.FotoBase64,
		Anexo1Base64:     r.Anexo1Base64,
		Anexo1Nome:       r.Anexo1Nome,
		Anexo2Base64:     r.Anexo2Base64,
		Anexo2Nome:       r.Anexo2Nome,
		Anexo3Base64:     r.Anexo3Base64,
		Anexo3Nome:       r.Anexo3Nome,
		QRPlan:           r.QRPlan,
		PrecoPago:        r.PrecoPago.String(),
		DescontoAplicado: r.DescontoAplicado.String(),
	}
}
