package models

import (
	"github.com/shopspring/decimal"
)

// Asset is a logical currency users can hold balances in. The mapping of an
// asset to on-chain networks lives in the external asset/network service.
type Asset struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Coin        string `gorm:"type:varchar(32);not null;uniqueIndex" json:"coin"`
	Name        string `gorm:"type:varchar(64);not null" json:"name"`
	Precision   int    `gorm:"not null;default:8" json:"precision"`
	CanDeposit  bool   `gorm:"not null;default:true" json:"can_deposit"`
	CanWithdraw bool   `gorm:"not null;default:true" json:"can_withdraw"`
	IsActive    bool   `gorm:"not null;default:true;index" json:"is_active"`

	Timestamps
}

// UserWallet is the per-user per-asset ledger row. Amount never goes
// negative: every debit is a conditional update guarded on the balance.
type UserWallet struct {
	ID       string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string          `gorm:"type:uuid;not null;index:idx_wallet_user_asset,unique" json:"user_id"`
	AssetID  string          `gorm:"type:uuid;not null;index:idx_wallet_user_asset,unique" json:"asset_id"`
	Amount   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"amount"`
	Frozen   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"frozen"`
	Pending  decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"pending"`
	IsLocked bool            `gorm:"not null;default:false" json:"is_locked"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`

	Timestamps
}
