package services

import (
	"errors"
	"fmt"

	"nft-market-system/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService keeps the per-user per-asset balances. Debit and Credit run
// on the caller's transaction handle so a settlement commits or rolls back
// as one unit with the rest of its writes.
type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// GetOrCreate returns the wallet for (userID, assetID), creating it at zero
// balance on first need.
func (s *WalletService) GetOrCreate(tx *gorm.DB, userID, assetID string) (*models.UserWallet, error) {
	var wallet models.UserWallet
	err := tx.Where("user_id = ? AND asset_id = ?", userID, assetID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: load wallet: %v", ErrInternal, err)
	}

	wallet = models.UserWallet{
		ID:      uuid.NewString(),
		UserID:  userID,
		AssetID: assetID,
		Amount:  decimal.Zero,
		Frozen:  decimal.Zero,
		Pending: decimal.Zero,
	}
	if err := tx.Create(&wallet).Error; err != nil {
		return nil, fmt.Errorf("%w: create wallet: %v", ErrInternal, err)
	}
	return &wallet, nil
}

// Debit subtracts amount from the wallet. The balance guard is part of the
// update statement itself, so a concurrent debit can never drive the amount
// negative; zero affected rows means the funds were not there.
func (s *WalletService) Debit(tx *gorm.DB, walletID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative debit amount", ErrInternal)
	}

	res := tx.Model(&models.UserWallet{}).
		Where("id = ? AND is_locked = ? AND amount >= ?", walletID, false, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("%w: debit wallet: %v", ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: wallet %s cannot cover %s", ErrInsufficientFunds, walletID, amount)
	}
	return nil
}

// Credit adds amount to the wallet.
func (s *WalletService) Credit(tx *gorm.DB, walletID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative credit amount", ErrInternal)
	}

	res := tx.Model(&models.UserWallet{}).
		Where("id = ?", walletID).
		Update("amount", gorm.Expr("amount + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("%w: credit wallet: %v", ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	return nil
}
