package constants

// 扣费来源常量
const (
	FundingSourcePlan   = "plano"
	FundingSourceWallet = "carteira"
	FundingSourceMixed  = "misto"
)

// 钱包资金池常量
const (
	WalletPoolMain = "main"
	WalletPoolPlan = "plan"
)

// 钱包交易类型常量
const (
	WalletTxnTypeRecharge    = "recharge"
	WalletTxnTypeOrderPay    = "order_pay"
	WalletTxnTypeAdminAdjust = "admin_adjust"
)

// 钱包交易方向常量
const (
	WalletTxnDirectionIn  = "in"
	WalletTxnDirectionOut = "out"
)

// 消费记录常量
const (
	ConsultationStatusCompleted = "completed"
	ConsultationSourcePdfRg     = "pdf-rg"
	PdfRgModuleName             = "PDF RG"
)

// 二维码有效期常量
const (
	PdfRgQRPlanOneMonth    = "1m"
	PdfRgQRPlanThreeMonths = "3m"
	PdfRgQRPlanSixMonths   = "6m"
	PdfRgQRPlanDefault     = PdfRgQRPlanOneMonth
)

// 通知优先级常量
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// 通知业务类型常量
const (
	NotificationBizTypePdfRgOrder = "pdf_rg_order"
)

// 事件类型常量
const (
	EventPdfRgOrderCreated       = "pdf_rg.order.created"
	EventPdfRgOrderStatusChanged = "pdf_rg.order.status_changed"
	EventPdfRgOrderDeleted       = "pdf_rg.order.deleted"
	EventNotificationCreated     = "notification.created"
)

// 异步任务类型常量
const (
	TaskNotificationDispatch = "notification:dispatch"
	TaskPdfRgSummaryRefresh  = "pdf_rg:summary_refresh"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 工作流告警码常量
const (
	WarningSettlementFailed   = "settlement_failed"
	WarningSpendRecordFailed  = "spend_record_failed"
	WarningNotifyFailed       = "notification_failed"
	WarningStatusLogFailed    = "status_log_failed"
	WarningEventPublishFailed = "event_publish_failed"
)
