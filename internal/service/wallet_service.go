package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/constants"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService 钱包服务（钱包余额 + 套餐余额）
type WalletService struct {
	walletRepo repository.WalletRepository
}

// ReserveFundsInput 订单扣款输入
type ReserveFundsInput struct {
	UserID  uint
	OrderID uint
	Amount  models.Money
	Remark  string
}

// Settlement 订单扣款结果
type Settlement struct {
	FundingSource      string       `json:"funding_source"`
	Amount             models.Money `json:"amount"`
	PlanDebit          models.Money `json:"plan_debit"`
	WalletDebit        models.Money `json:"wallet_debit"`
	PlanBalanceAfter   models.Money `json:"plan_balance_after"`
	WalletBalanceAfter models.Money `json:"wallet_balance_after"`
}

// WalletAdjustInput 管理员余额调整输入
type WalletAdjustInput struct {
	UserID uint
	Pool   string
	Delta  models.Money
	Remark string
}

// NewWalletService 创建钱包服务
func NewWalletService(walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// GetAccount 获取钱包账户（不存在时自动创建）
func (s *WalletService) GetAccount(userID uint) (*models.WalletAccount, error) {
	if userID == 0 {
		return nil, ErrWalletAccountNotFound
	}
	return s.getOrCreateAccount(userID)
}

// AvailableFunds 返回套餐余额与钱包余额，账户不存在时均为 0
func (s *WalletService) AvailableFunds(userID uint) (decimal.Decimal, decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, decimal.Zero, ErrWalletAccountNotFound
	}
	account, err := s.walletRepo.GetAccount(userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, decimal.Zero, nil
	}
	return account.PlanBalance.Decimal.Round(2), account.Balance.Decimal.Round(2), nil
}

// ListTransactions 查询钱包流水
func (s *WalletService) ListTransactions(filter repository.WalletTransactionListFilter) ([]models.WalletTransaction, int64, error) {
	return s.walletRepo.ListTransactions(filter)
}

// ReserveFunds 在同一事务内锁定账户、选择扣款来源并扣减余额。
// 同一订单重复调用时返回已有流水对应的结果，不会重复扣款。
func (s *WalletService) ReserveFunds(input ReserveFundsInput) (*Settlement, error) {
	if input.UserID == 0 {
		return nil, ErrWalletAccountNotFound
	}
	amount := input.Amount.Decimal.Round(2)
	if amount.IsNegative() {
		return nil, ErrWalletInvalidAmount
	}
	remark := cleanWalletRemark(input.Remark, "订单扣款")

	var result *Settlement
	err := s.walletRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.walletRepo.WithTx(tx)
		now := time.Now()
		account, err := s.ensureAccountForUpdate(repo, input.UserID, now)
		if err != nil {
			return err
		}

		if input.OrderID != 0 {
			existing, err := s.loadExistingSettlement(repo, account, input.OrderID)
			if err != nil {
				return err
			}
			if existing != nil {
				result = existing
				return nil
			}
		}

		plan := SelectFundingSource(account.PlanBalance.Decimal, account.Balance.Decimal, amount)
		planBefore := account.PlanBalance.Decimal.Round(2)
		walletBefore := account.Balance.Decimal.Round(2)
		planAfter := planBefore.Sub(plan.PlanDebit).Round(2)
		walletAfter := walletBefore.Sub(plan.WalletDebit).Round(2)

		if plan.Total().GreaterThan(decimal.Zero) {
			account.PlanBalance = models.NewMoneyFromDecimal(planAfter)
			account.Balance = models.NewMoneyFromDecimal(walletAfter)
			account.UpdatedAt = now
			if err := repo.SaveBalances(account); err != nil {
				return ErrWalletAccountUpdateFailed
			}
		}

		orderID := orderIDPtr(input.OrderID)
		if plan.PlanDebit.GreaterThan(decimal.Zero) {
			if err := repo.CreateTransaction(&models.WalletTransaction{
				UserID:        input.UserID,
				OrderID:       orderID,
				Type:          constants.WalletTxnTypeOrderPay,
				Pool:          constants.WalletPoolPlan,
				Direction:     constants.WalletTxnDirectionOut,
				Amount:        models.NewMoneyFromDecimal(plan.PlanDebit),
				BalanceBefore: models.NewMoneyFromDecimal(planBefore),
				BalanceAfter:  models.NewMoneyFromDecimal(planAfter),
				Reference:     buildOrderPayReference(input.OrderID, constants.WalletPoolPlan),
				Remark:        remark,
				CreatedAt:     now,
				UpdatedAt:     now,
			}); err != nil {
				return ErrWalletTransactionCreateFailed
			}
		}
		if plan.WalletDebit.GreaterThan(decimal.Zero) {
			if err := repo.CreateTransaction(&models.WalletTransaction{
				UserID:        input.UserID,
				OrderID:       orderID,
				Type:          constants.WalletTxnTypeOrderPay,
				Pool:          constants.WalletPoolMain,
				Direction:     constants.WalletTxnDirectionOut,
				Amount:        models.NewMoneyFromDecimal(plan.WalletDebit),
				BalanceBefore: models.NewMoneyFromDecimal(walletBefore),
				BalanceAfter:  models.NewMoneyFromDecimal(walletAfter),
				Reference:     buildOrderPayReference(input.OrderID, constants.WalletPoolMain),
				Remark:        remark,
				CreatedAt:     now,
				UpdatedAt:     now,
			}); err != nil {
				return ErrWalletTransactionCreateFailed
			}
		}

		result = &Settlement{
			FundingSource:      plan.Source,
			Amount:             models.NewMoneyFromDecimal(amount),
			PlanDebit:          models.NewMoneyFromDecimal(plan.PlanDebit),
			WalletDebit:        models.NewMoneyFromDecimal(plan.WalletDebit),
			PlanBalanceAfter:   models.NewMoneyFromDecimal(planAfter),
			WalletBalanceAfter: models.NewMoneyFromDecimal(walletAfter),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdminAdjust 管理员调整指定资金池余额，调整后余额不可为负
func (s *WalletService) AdminAdjust(input WalletAdjustInput) (*models.WalletAccount, *models.WalletTransaction, error) {
	if input.UserID == 0 {
		return nil, nil, ErrWalletAccountNotFound
	}
	pool := strings.ToLower(strings.TrimSpace(input.Pool))
	if pool == "" {
		pool = constants.WalletPoolMain
	}
	if pool != constants.WalletPoolMain && pool != constants.WalletPoolPlan {
		return nil, nil, ErrWalletInvalidPool
	}
	delta := input.Delta.Decimal.Round(2)
	if delta.IsZero() {
		return nil, nil, ErrWalletInvalidAmount
	}

	var accountResult *models.WalletAccount
	var txnResult *models.WalletTransaction
	if err := s.walletRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.walletRepo.WithTx(tx)
		now := time.Now()
		account, err := s.ensureAccountForUpdate(repo, input.UserID, now)
		if err != nil {
			return err
		}

		before := account.Balance.Decimal.Round(2)
		if pool == constants.WalletPoolPlan {
			before = account.PlanBalance.Decimal.Round(2)
		}
		after := before.Add(delta).Round(2)
		if after.LessThan(decimal.Zero) {
			return ErrWalletInsufficientBalance
		}
		direction := constants.WalletTxnDirectionIn
		if delta.IsNegative() {
			direction = constants.WalletTxnDirectionOut
		}

		if pool == constants.WalletPoolPlan {
			account.PlanBalance = models.NewMoneyFromDecimal(after)
		} else {
			account.Balance = models.NewMoneyFromDecimal(after)
		}
		account.UpdatedAt = now
		if err := repo.SaveBalances(account); err != nil {
			return ErrWalletAccountUpdateFailed
		}

		txn := &models.WalletTransaction{
			UserID:        input.UserID,
			Type:          constants.WalletTxnTypeAdminAdjust,
			Pool:          pool,
			Direction:     direction,
			Amount:        models.NewMoneyFromDecimal(delta.Abs()),
			BalanceBefore: models.NewMoneyFromDecimal(before),
			BalanceAfter:  models.NewMoneyFromDecimal(after),
			Reference:     buildWalletReference(constants.WalletTxnTypeAdminAdjust, input.UserID),
			Remark:        cleanWalletRemark(input.Remark, "管理员调整余额"),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.CreateTransaction(txn); err != nil {
			return ErrWalletTransactionCreateFailed
		}
		accountResult = account
		txnResult = txn
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return accountResult, txnResult, nil
}

func (s *WalletService) loadExistingSettlement(repo *repository.GormWalletRepository, account *models.WalletAccount, orderID uint) (*Settlement, error) {
	planTxn, err := repo.FindTransaction(buildOrderPayReference(orderID, constants.WalletPoolPlan))
	if err != nil {
		return nil, err
	}
	walletTxn, err := repo.FindTransaction(buildOrderPayReference(orderID, constants.WalletPoolMain))
	if err != nil {
		return nil, err
	}
	if planTxn == nil && walletTxn == nil {
		return nil, nil
	}
	planDebit := decimal.Zero
	walletDebit := decimal.Zero
	if planTxn != nil {
		planDebit = planTxn.Amount.Decimal
	}
	if walletTxn != nil {
		walletDebit = walletTxn.Amount.Decimal
	}
	source := constants.FundingSourceMixed
	switch {
	case walletTxn == nil:
		source = constants.FundingSourcePlan
	case planTxn == nil:
		source = constants.FundingSourceWallet
	}
	return &Settlement{
		FundingSource:      source,
		Amount:             models.NewMoneyFromDecimal(planDebit.Add(walletDebit)),
		PlanDebit:          models.NewMoneyFromDecimal(planDebit),
		WalletDebit:        models.NewMoneyFromDecimal(walletDebit),
		PlanBalanceAfter:   account.PlanBalance,
		WalletBalanceAfter: account.Balance,
	}, nil
}

func (s *WalletService) getOrCreateAccount(userID uint) (*models.WalletAccount, error) {
	account, err := s.walletRepo.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	now := time.Now()
	account = &models.WalletAccount{
		UserID:      userID,
		Balance:     models.ZeroMoney(),
		PlanBalance: models.ZeroMoney(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.walletRepo.CreateAccount(account); err != nil {
		created, queryErr := s.walletRepo.GetAccount(userID)
		if queryErr == nil && created != nil {
			return created, nil
		}
		return nil, ErrWalletAccountCreateFailed
	}
	return account, nil
}

func (s *WalletService) ensureAccountForUpdate(repo *repository.GormWalletRepository, userID uint, now time.Time) (*models.WalletAccount, error) {
	account, err := repo.LockAccount(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	account = &models.WalletAccount{
		UserID:      userID,
		Balance:     models.ZeroMoney(),
		PlanBalance: models.ZeroMoney(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.CreateAccount(account); err != nil {
		created, queryErr := repo.LockAccount(userID)
		if queryErr == nil && created != nil {
			return created, nil
		}
		return nil, ErrWalletAccountCreateFailed
	}
	return account, nil
}

func cleanWalletRemark(raw string, fallback string) string {
	remark := strings.TrimSpace(raw)
	if remark == "" {
		return fallback
	}
	return remark
}

func buildOrderPayReference(orderID uint, pool string) string {
	if orderID == 0 {
		return buildWalletReference("pdf_rg:adhoc:"+pool, 0)
	}
	return fmt.Sprintf("pdf_rg:%d:%s", orderID, pool)
}

func buildWalletReference(prefix string, id uint) string {
	normalized := strings.TrimSpace(prefix)
	if normalized == "" {
		normalized = "wallet"
	}
	return fmt.Sprintf("%s:%d:%d", normalized, id, time.Now().UnixNano())
}

func orderIDPtr(orderID uint) *uint {
	if orderID == 0 {
		return nil
	}
	id := orderID
	return &id
}
