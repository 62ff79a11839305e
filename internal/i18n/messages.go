package i18n

var catalog = map[string]map[string]string{
	LocalePtBR: {
		"error.bad_request":            "Requisição inválida",
		"error.unauthorized":           "Não autorizado",
		"error.forbidden":              "Acesso negado",
		"error.not_found":              "Recurso não encontrado",
		"error.internal":               "Erro interno do servidor",
		"error.jwt_secret_missing":     "Chave JWT não configurada",
		"error.auth_header_missing":    "Cabeçalho Authorization ausente",
		"error.auth_header_invalid":    "Formato do cabeçalho Authorization inválido",
		"error.token_invalid":          "Token inválido ou expirado",
		"error.user_id_invalid":        "ID de usuário inválido",
		"error.admin_id_invalid":       "ID de administrador inválido",
		"error.rate_limited":           "Muitas requisições, tente novamente em %d segundos",
		"error.rate_limit_unavailable": "Serviço de limite de requisições indisponível",
		"error.pdf_rg_cpf_required":    "CPF é obrigatório",
		"error.pdf_rg_status_invalid":  "Status inválido",
		"error.pdf_rg_qr_plan_invalid": "Plano de QR Code inválido",
		"error.pdf_rg_diretor_invalid": "Diretor inválido",
		"error.pdf_rg_attachment":      "Anexo inválido: máximo de 3 arquivos JPG, PNG, GIF ou PDF de até 15MB",
		"error.pdf_rg_image_invalid":   "Foto ou assinatura inválida",
		"error.pdf_rg_document_req":    "É necessário anexar o PDF para marcar como entregue",
		"error.pdf_rg_document":        "Documento de entrega inválido",
		"error.pdf_rg_order_not_found": "Pedido não encontrado",
		"error.pdf_rg_order_failed":    "Erro ao processar o pedido",
		"error.pdf_rg_price_mismatch":  "O valor informado não confere com o preço atual, atualize a página",
		"error.pdf_rg_price_unavail":   "Preço do serviço indisponível",
		"error.wallet_insufficient":    "Saldo insuficiente",
		"error.wallet_amount_invalid":  "Valor inválido",
		"error.wallet_pool_invalid":    "Tipo de saldo inválido",
		"error.wallet_failed":          "Erro ao processar o saldo",
		"error.notification_not_found": "Notificação não encontrada",
		"error.notification_failed":    "Erro ao processar a notificação",
		"error.order_id_invalid":       "ID do pedido inválido",
		"error.file_read_failed":       "Falha ao ler o arquivo enviado",
		"success.pdf_rg_created":       "Pedido criado com sucesso",
		"success.pdf_rg_status":        "Status atualizado com sucesso",
		"success.pdf_rg_deleted":       "Pedido excluído com sucesso",
	},
	LocaleEnUS: {
		"error.bad_request":            "Invalid request",
		"error.unauthorized":           "Unauthorized",
		"error.forbidden":              "Forbidden",
		"error.not_found":              "Resource not found",
		"error.internal":               "Internal server error",
		"error.jwt_secret_missing":     "JWT secret is not configured",
		"error.auth_header_missing":    "Authorization header is missing",
		"error.auth_header_invalid":    "Authorization header is malformed",
		"error.token_invalid":          "Token is invalid or expired",
		"error.user_id_invalid":        "Invalid user id",
		"error.admin_id_invalid":       "Invalid admin id",
		"error.rate_limited":           "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limit service unavailable",
		"error.pdf_rg_cpf_required":    "CPF is required",
		"error.pdf_rg_status_invalid":  "Invalid status",
		"error.pdf_rg_qr_plan_invalid": "Invalid QR code plan",
		"error.pdf_rg_diretor_invalid": "Invalid director",
		"error.pdf_rg_attachment":      "Invalid attachment: up to 3 JPG, PNG, GIF or PDF files of at most 15MB",
		"error.pdf_rg_image_invalid":   "Invalid photo or signature",
		"error.pdf_rg_document_req":    "A PDF must be attached before marking the order as delivered",
		"error.pdf_rg_document":        "Invalid delivered document",
		"error.pdf_rg_order_not_found": "Order not found",
		"error.pdf_rg_order_failed":    "Failed to process the order",
		"error.pdf_rg_price_mismatch":  "The submitted price does not match the current price, reload the page",
		"error.pdf_rg_price_unavail":   "Service price is unavailable",
		"error.wallet_insufficient":    "Insufficient balance",
		"error.wallet_amount_invalid":  "Invalid amount",
		"error.wallet_pool_invalid":    "Invalid balance pool",
		"error.wallet_failed":          "Failed to process the balance",
		"error.notification_not_found": "Notification not found",
		"error.notification_failed":    "Failed to process the notification",
		"error.order_id_invalid":       "Invalid order id",
		"error.file_read_failed":       "Failed to read the uploaded file",
		"success.pdf_rg_created":       "Order created",
		"success.pdf_rg_status":        "Status updated",
		"success.pdf_rg_deleted":       "Order deleted",
	},
}
