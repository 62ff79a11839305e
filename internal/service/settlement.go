package service

import (
	"github.com/consultas-painel/pdfrg/internal/constants"

	"github.com/shopspring/decimal"
)

// FundingPlan 单笔订单的扣款方案
type FundingPlan struct {
	Source      string
	PlanDebit   decimal.Decimal
	WalletDebit decimal.Decimal
}

// SelectFundingSource 按套餐余额优先的顺序确定扣款来源。
// 套餐余额足够时仅扣套餐；套餐有余额且与钱包合计足够时套餐清零、差额扣钱包；
// 否则整单扣钱包，钱包允许为负。
func SelectFundingSource(plan, wallet, price decimal.Decimal) FundingPlan {
	price = price.Round(2)
	if price.LessThanOrEqual(decimal.Zero) {
		return FundingPlan{Source: constants.FundingSourcePlan, PlanDebit: decimal.Zero, WalletDebit: decimal.Zero}
	}
	plan = plan.Round(2)
	if plan.IsNegative() {
		plan = decimal.Zero
	}
	wallet = wallet.Round(2)

	if plan.GreaterThanOrEqual(price) {
		return FundingPlan{Source: constants.FundingSourcePlan, PlanDebit: price, WalletDebit: decimal.Zero}
	}
	if plan.IsPositive() && plan.Add(wallet).GreaterThanOrEqual(price) {
		return FundingPlan{Source: constants.FundingSourceMixed, PlanDebit: plan, WalletDebit: price.Sub(plan)}
	}
	return FundingPlan{Source: constants.FundingSourceWallet, PlanDebit: decimal.Zero, WalletDebit: price}
}

// Total 本次扣款总额
func (p FundingPlan) Total() decimal.Decimal {
	return p.PlanDebit.Add(p.WalletDebit)
}
