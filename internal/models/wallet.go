package models

import "time"

// WalletAccount 用户钱包账户（主余额 + 套餐余额）
type WalletAccount struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`                       // 用户ID
	Balance     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`      // 钱包余额
	PlanBalance Money     `gorm:"type:decimal(20,2);not null;default:0" json:"plan_balance"` // 套餐余额
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                                   // 更新时间
}

// TableName 指定表名
func (WalletAccount) TableName() string {
	return "wallet_accounts"
}

// WalletTransaction 钱包流水
type WalletTransaction struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                        // 主键
	UserID        uint      `gorm:"index;not null" json:"user_id"`                               // 用户ID
	OrderID       *uint     `gorm:"index" json:"order_id,omitempty"`                             // 关联订单
	Type          string    `gorm:"type:varchar(32);index;not null" json:"type"`                 // 流水类型
	Pool          string    `gorm:"type:varchar(16);index;not null;default:'main'" json:"pool"`  // 资金池 main/plan
	Direction     string    `gorm:"type:varchar(8);not null" json:"direction"`                   // 方向 in/out
	Amount        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`         // 变动金额
	BalanceBefore Money     `gorm:"type:decimal(20,2);not null;default:0" json:"balance_before"` // 变动前余额
	BalanceAfter  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"balance_after"`  // 变动后余额
	Reference     string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"reference"`     // 唯一参考号
	Remark        string    `gorm:"type:varchar(255)" json:"remark"`                             // 备注
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time `gorm:"index" json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
