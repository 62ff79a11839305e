package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/consultas-painel/pdfrg/internal/constants"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupWalletServiceTest(t *testing.T) (*WalletService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.WalletAccount{},
		&models.WalletTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewWalletService(repository.NewWalletRepository(db)), db
}

func seedWalletAccount(t *testing.T, db *gorm.DB, userID uint, plan, wallet string) {
	t.Helper()
	now := time.Now()
	account := models.WalletAccount{
		UserID:      userID,
		Balance:     models.NewMoneyFromDecimal(decimal.RequireFromString(wallet)),
		PlanBalance: models.NewMoneyFromDecimal(decimal.RequireFromString(plan)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create wallet account failed: %v", err)
	}
}

func mustMoney(raw string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(raw))
}

func TestWalletServiceReserveFundsMixed(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	seedWalletAccount(t, db, 1, "10.00", "40.00")

	settlement, err := svc.ReserveFunds(ReserveFundsInput{UserID: 1, OrderID: 5, Amount: mustMoney("30.00"), Remark: "Pedido PDF RG - CPF 12345678900"})
	if err != nil {
		t.Fatalf("reserve funds failed: %v", err)
	}
	if settlement.FundingSource != constants.FundingSourceMixed {
		t.Fatalf("want misto got %s", settlement.FundingSource)
	}
	if settlement.WalletDebit.String() != "20.00" || settlement.PlanDebit.String() != "10.00" {
		t.Fatalf("unexpected debits: plan=%s wallet=%s", settlement.PlanDebit, settlement.WalletDebit)
	}

	account, err := svc.GetAccount(1)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.PlanBalance.String() != "0.00" || account.Balance.String() != "20.00" {
		t.Fatalf("unexpected balances: plan=%s wallet=%s", account.PlanBalance, account.Balance)
	}

	txns, total, err := svc.ListTransactions(repository.WalletTransactionListFilter{UserID: 1, OrderID: 5})
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	if total != 2 || len(txns) != 2 {
		t.Fatalf("want 2 transactions got %d", total)
	}
	for _, txn := range txns {
		if txn.Remark != "Pedido PDF RG - CPF 12345678900" {
			t.Fatalf("remark mismatch: %s", txn.Remark)
		}
		if txn.Direction != constants.WalletTxnDirectionOut || txn.Type != constants.WalletTxnTypeOrderPay {
			t.Fatalf("unexpected txn: %+v", txn)
		}
	}
}

func TestWalletServiceReserveFundsWalletMayGoNegative(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	seedWalletAccount(t, db, 2, "5.00", "10.00")

	settlement, err := svc.ReserveFunds(ReserveFundsInput{UserID: 2, OrderID: 6, Amount: mustMoney("30.00")})
	if err != nil {
		t.Fatalf("reserve funds failed: %v", err)
	}
	if settlement.FundingSource != constants.FundingSourceWallet {
		t.Fatalf("want carteira got %s", settlement.FundingSource)
	}
	if settlement.WalletBalanceAfter.String() != "-20.00" || settlement.PlanBalanceAfter.String() != "5.00" {
		t.Fatalf("unexpected balances after: plan=%s wallet=%s", settlement.PlanBalanceAfter, settlement.WalletBalanceAfter)
	}
}

func TestWalletServiceReserveFundsEmptyPlanUsesWallet(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	seedWalletAccount(t, db, 4, "0", "40.00")

	first, err := svc.ReserveFunds(ReserveFundsInput{UserID: 4, OrderID: 11, Amount: mustMoney("30.00")})
	if err != nil {
		t.Fatalf("reserve funds failed: %v", err)
	}
	if first.FundingSource != constants.FundingSourceWallet {
		t.Fatalf("want carteira got %s", first.FundingSource)
	}
	if first.WalletBalanceAfter.String() != "10.00" || first.PlanDebit.String() != "0.00" {
		t.Fatalf("unexpected settlement: plan=%s wallet_after=%s", first.PlanDebit, first.WalletBalanceAfter)
	}

	replay, err := svc.ReserveFunds(ReserveFundsInput{UserID: 4, OrderID: 11, Amount: mustMoney("30.00")})
	if err != nil {
		t.Fatalf("replay reserve failed: %v", err)
	}
	if replay.FundingSource != constants.FundingSourceWallet {
		t.Fatalf("replay should report carteira, got %s", replay.FundingSource)
	}
}

func TestWalletServiceReserveFundsIdempotentPerOrder(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	seedWalletAccount(t, db, 3, "50.00", "0")

	first, err := svc.ReserveFunds(ReserveFundsInput{UserID: 3, OrderID: 9, Amount: mustMoney("20.00")})
	if err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	second, err := svc.ReserveFunds(ReserveFundsInput{UserID: 3, OrderID: 9, Amount: mustMoney("20.00")})
	if err != nil {
		t.Fatalf("second reserve failed: %v", err)
	}
	if first.FundingSource != constants.FundingSourcePlan || second.FundingSource != constants.FundingSourcePlan {
		t.Fatalf("both calls should report plano, got %s / %s", first.FundingSource, second.FundingSource)
	}
	account, _ := svc.GetAccount(3)
	if account.PlanBalance.String() != "30.00" {
		t.Fatalf("plan should be debited once, got %s", account.PlanBalance)
	}
}

func TestWalletServiceReserveFundsCreatesMissingAccount(t *testing.T) {
	svc, _ := setupWalletServiceTest(t)

	settlement, err := svc.ReserveFunds(ReserveFundsInput{UserID: 4, OrderID: 1, Amount: mustMoney("12.50")})
	if err != nil {
		t.Fatalf("reserve funds failed: %v", err)
	}
	if settlement.FundingSource != constants.FundingSourceWallet || settlement.WalletBalanceAfter.String() != "-12.50" {
		t.Fatalf("unexpected settlement: %+v", settlement)
	}

	if _, err := svc.ReserveFunds(ReserveFundsInput{UserID: 0, Amount: mustMoney("1.00")}); !errors.Is(err, ErrWalletAccountNotFound) {
		t.Fatalf("zero user should fail, got %v", err)
	}
	if _, err := svc.ReserveFunds(ReserveFundsInput{UserID: 4, Amount: mustMoney("-1.00")}); !errors.Is(err, ErrWalletInvalidAmount) {
		t.Fatalf("negative amount should fail, got %v", err)
	}
}

func TestWalletServiceReserveFundsSerializesConcurrentOrders(t *testing.T) {
	svc, db := setupWalletServiceTest(t)
	seedWalletAccount(t, db, 5, "0", "100.00")
	// sqlite 单连接，与默认连接池配置一致
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(orderID uint) {
			defer wg.Done()
			_, err := svc.ReserveFunds(ReserveFundsInput{UserID: 5, OrderID: orderID, Amount: mustMoney("10.00")})
			errs <- err
		}(uint(100 + i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent reserve failed: %v", err)
		}
	}
	account, _ := svc.GetAccount(5)
	if account.Balance.String() != "60.00" {
		t.Fatalf("every debit should apply exactly once, got %s", account.Balance)
	}
}

func TestWalletServiceAdminAdjust(t *testing.T) {
	svc, _ := setupWalletServiceTest(t)

	account, txn, err := svc.AdminAdjust(WalletAdjustInput{UserID: 7, Pool: "plan", Delta: mustMoney("25.00")})
	if err != nil {
		t.Fatalf("admin adjust failed: %v", err)
	}
	if account.PlanBalance.String() != "25.00" || account.Balance.String() != "0.00" {
		t.Fatalf("unexpected balances: %+v", account)
	}
	if txn.Pool != constants.WalletPoolPlan || txn.Direction != constants.WalletTxnDirectionIn || txn.Remark != "管理员调整余额" {
		t.Fatalf("unexpected txn: %+v", txn)
	}

	if _, _, err := svc.AdminAdjust(WalletAdjustInput{UserID: 7, Pool: "main", Delta: mustMoney("-1.00")}); !errors.Is(err, ErrWalletInsufficientBalance) {
		t.Fatalf("negative result should be rejected, got %v", err)
	}
	if _, _, err := svc.AdminAdjust(WalletAdjustInput{UserID: 7, Pool: "bonus", Delta: mustMoney("1.00")}); !errors.Is(err, ErrWalletInvalidPool) {
		t.Fatalf("invalid pool should be rejected, got %v", err)
	}
	if _, _, err := svc.AdminAdjust(WalletAdjustInput{UserID: 7, Delta: mustMoney("0")}); !errors.Is(err, ErrWalletInvalidAmount) {
		t.Fatalf("zero delta should be rejected, got %v", err)
	}
}
