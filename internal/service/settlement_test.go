package service

import (
	"testing"

	"github.com/consultas-painel/pdfrg/internal/constants"

	"github.com/shopspring/decimal"
)

func TestSelectFundingSource(t *testing.T) {
	d := decimal.RequireFromString
	cases := []struct {
		name       string
		plan       string
		wallet     string
		price      string
		wantSource string
		wantPlan   string
		wantWallet string
	}{
		{"plan covers", "50.00", "0", "30.00", constants.FundingSourcePlan, "30.00", "0"},
		{"plan exact", "30.00", "10.00", "30.00", constants.FundingSourcePlan, "30.00", "0"},
		{"mixed", "10.00", "40.00", "30.00", constants.FundingSourceMixed, "10.00", "20.00"},
		{"wallet without plan", "0", "40.00", "30.00", constants.FundingSourceWallet, "0", "30.00"},
		{"wallet goes negative", "5.00", "10.00", "30.00", constants.FundingSourceWallet, "0", "30.00"},
		{"negative plan ignored", "-5.00", "40.00", "30.00", constants.FundingSourceWallet, "0", "30.00"},
		{"zero price", "0", "0", "0", constants.FundingSourcePlan, "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectFundingSource(d(tc.plan), d(tc.wallet), d(tc.price))
			if got.Source != tc.wantSource {
				t.Fatalf("source want %s got %s", tc.wantSource, got.Source)
			}
			if !got.PlanDebit.Equal(d(tc.wantPlan)) {
				t.Fatalf("plan debit want %s got %s", tc.wantPlan, got.PlanDebit)
			}
			if !got.WalletDebit.Equal(d(tc.wantWallet)) {
				t.Fatalf("wallet debit want %s got %s", tc.wantWallet, got.WalletDebit)
			}
			if got.Source != constants.FundingSourceWallet && tc.price != "0" && !got.Total().Equal(d(tc.price)) {
				t.Fatalf("total should equal price, got %s", got.Total())
			}
		})
	}
}
