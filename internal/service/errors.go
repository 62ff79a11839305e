package service

import "errors"

// PDF RG 订单
var (
	ErrPdfRgCPFRequired       = errors.New("pdf rg cpf is required")
	ErrPdfRgInvalidStatus     = errors.New("pdf rg status is invalid")
	ErrPdfRgQRPlanInvalid     = errors.New("pdf rg qr plan is invalid")
	ErrPdfRgDiretorInvalid    = errors.New("pdf rg diretor is invalid")
	ErrPdfRgAttachmentInvalid = errors.New("pdf rg attachment is invalid")
	ErrPdfRgImageInvalid      = errors.New("pdf rg image is invalid")
	ErrPdfRgDocumentRequired  = errors.New("pdf rg delivered document is required")
	ErrPdfRgDocumentInvalid   = errors.New("pdf rg delivered document is invalid")
	ErrPdfRgOrderNotFound     = errors.New("pdf rg order not found")
	ErrPdfRgOrderCreateFailed = errors.New("pdf rg order create failed")
	ErrPdfRgOrderUpdateFailed = errors.New("pdf rg order update failed")
	ErrPdfRgOrderDeleteFailed = errors.New("pdf rg order delete failed")
	ErrPdfRgOrderFetchFailed  = errors.New("pdf rg order fetch failed")
	ErrPdfRgPriceMismatch     = errors.New("pdf rg submitted price does not match")
	ErrPdfRgPriceUnavailable  = errors.New("pdf rg price is not configured")
)

// 钱包
var (
	ErrWalletInvalidAmount           = errors.New("wallet amount is invalid")
	ErrWalletInvalidPool             = errors.New("wallet pool is invalid")
	ErrWalletInsufficientBalance     = errors.New("wallet balance is insufficient")
	ErrWalletAccountNotFound         = errors.New("wallet account not found")
	ErrWalletAccountCreateFailed     = errors.New("wallet account create failed")
	ErrWalletAccountUpdateFailed     = errors.New("wallet account update failed")
	ErrWalletTransactionCreateFailed = errors.New("wallet transaction create failed")
)

// 消费记录与通知
var (
	ErrConsultationCreateFailed = errors.New("consultation create failed")
	ErrNotificationInvalid      = errors.New("notification is invalid")
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrNotificationCreateFailed = errors.New("notification create failed")
)
