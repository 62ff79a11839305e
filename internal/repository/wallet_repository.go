package repository

import (
	"errors"
	"strings"

	"github.com/consultas-painel/pdfrg/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository 钱包账户与流水数据访问接口
type WalletRepository interface {
	GetAccount(userID uint) (*models.WalletAccount, error)
	LockAccount(userID uint) (*models.WalletAccount, error)
	CreateAccount(account *models.WalletAccount) error
	SaveBalances(account *models.WalletAccount) error
	CreateTransaction(txn *models.WalletTransaction) error
	FindTransaction(reference string) (*models.WalletTransaction, error)
	ListTransactions(filter WalletTransactionListFilter) ([]models.WalletTransaction, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormWalletRepository
}

// GormWalletRepository GORM 钱包仓储实现
type GormWalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository 创建钱包仓储
func NewWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWalletRepository) WithTx(tx *gorm.DB) *GormWalletRepository {
	if tx == nil {
		return r
	}
	return &GormWalletRepository{db: tx}
}

// Transaction 在同一事务中执行回调，结算时余额与流水必须一起提交
func (r *GormWalletRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetAccount 读取用户钱包，不存在时返回 nil, nil
func (r *GormWalletRepository) GetAccount(userID uint) (*models.WalletAccount, error) {
	return r.findAccount(r.db, userID)
}

// LockAccount 行锁读取用户钱包，需在事务内调用
func (r *GormWalletRepository) LockAccount(userID uint) (*models.WalletAccount, error) {
	return r.findAccount(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *GormWalletRepository) findAccount(query *gorm.DB, userID uint) (*models.WalletAccount, error) {
	if userID == 0 {
		return nil, nil
	}
	var account models.WalletAccount
	err := query.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccount 创建钱包账户
func (r *GormWalletRepository) CreateAccount(account *models.WalletAccount) error {
	return r.db.Create(account).Error
}

// SaveBalances 只写回两个余额字段，零值也会落库
func (r *GormWalletRepository) SaveBalances(account *models.WalletAccount) error {
	return r.db.Model(account).
		Select("balance", "plan_balance", "updated_at").
		Updates(account).Error
}

// CreateTransaction 写入一条流水
func (r *GormWalletRepository) CreateTransaction(txn *models.WalletTransaction) error {
	return r.db.Create(txn).Error
}

// FindTransaction 按唯一参考号查找流水，用于结算幂等
func (r *GormWalletRepository) FindTransaction(reference string) (*models.WalletTransaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, nil
	}
	var txn models.WalletTransaction
	err := r.db.Where("reference = ?", reference).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactions 分页查询钱包流水
func (r *GormWalletRepository) ListTransactions(filter WalletTransactionListFilter) ([]models.WalletTransaction, int64, error) {
	query := r.db.Model(&models.WalletTransaction{}).Scopes(filter.scope)
	return findPage[models.WalletTransaction](query, filter.Page, filter.PageSize)
}

func (f WalletTransactionListFilter) scope(db *gorm.DB) *gorm.DB {
	equals := []struct {
		column string
		value  interface{}
		set    bool
	}{
		{"user_id", f.UserID, f.UserID != 0},
		{"order_id", f.OrderID, f.OrderID != 0},
		{"type", f.Type, f.Type != ""},
		{"pool", f.Pool, f.Pool != ""},
		{"direction", f.Direction, f.Direction != ""},
	}
	for _, cond := range equals {
		if cond.set {
			db = db.Where(cond.column+" = ?", cond.value)
		}
	}
	if f.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		db = db.Where("created_at <= ?", *f.CreatedTo)
	}
	return db
}
