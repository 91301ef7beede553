package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BoxStatusInAuction = "IN_AUCTION"
	BoxStatusSold      = "SOLD"
)

const (
	BoxAuctionStatusActive   = "ACTIVE"
	BoxAuctionStatusFinished = "FINISHED"
)

const (
	BoxSettingTypeDopamine  = "DOPAMINE"
	BoxSettingTypeSerotonin = "SEROTONIN"
)

// Box is a reward container. Dopamine/serotonin/referral stay zero until the
// purchase or gift-open settlement resolves the payload.
type Box struct {
	ID              string          `gorm:"primaryKey;type:uuid" json:"id"`
	Name            string          `gorm:"not null" json:"name"`
	Slug            string          `gorm:"type:varchar(128);index" json:"slug"`
	CardTypeID      string          `gorm:"type:uuid;not null;index" json:"card_type_id"`
	Image           string          `gorm:"type:text" json:"image"`
	Level           int             `gorm:"not null;default:1" json:"level"` // 1..5
	DopamineAmount  decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"dopamine_amount"`
	SerotoninAmount decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"serotonin_amount"`
	ReferralCount   int             `gorm:"not null;default:0" json:"referral_count"`
	CardID          *string         `gorm:"type:uuid" json:"card_id,omitempty"` // physical card prize, normally nil
	Status          string          `gorm:"type:varchar(16);not null;default:'IN_AUCTION';index" json:"status"`

	CardType *CardType `gorm:"foreignKey:CardTypeID" json:"card_type,omitempty"`
	Card     *Card     `gorm:"foreignKey:CardID" json:"card,omitempty"`

	Timestamps
}

// BoxAuction is the fixed-price sale of one Box in one asset.
type BoxAuction struct {
	ID      string          `gorm:"primaryKey;type:uuid" json:"id"`
	BoxID   string          `gorm:"type:uuid;not null;index" json:"box_id"`
	AssetID string          `gorm:"type:uuid;not null;index" json:"asset_id"`
	Price   decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Status  string          `gorm:"type:varchar(16);not null;default:'ACTIVE';index" json:"status"`

	Box   *Box   `gorm:"foreignKey:BoxID" json:"box,omitempty"`
	Asset *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`

	Timestamps
}

// UserBox links a user to a box they purchased or were gifted.
type UserBox struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	BoxID        string `gorm:"type:uuid;not null;index" json:"box_id"`
	BoxAuctionID string `gorm:"type:uuid;not null;index" json:"box_auction_id"`
	IsOpened     bool   `gorm:"not null;default:false" json:"is_opened"`

	Box        *Box        `gorm:"foreignKey:BoxID" json:"box,omitempty"`
	BoxAuction *BoxAuction `gorm:"foreignKey:BoxAuctionID" json:"box_auction,omitempty"`

	Timestamps
}

// BoxTrade is the append-only settlement record of a box purchase or open.
// Address is filled later by the physical-card delivery confirmation.
type BoxTrade struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	BoxAuctionID string          `gorm:"type:uuid;not null;index" json:"box_auction_id"`
	Amount       decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Address      string          `gorm:"type:varchar(128)" json:"address,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// BoxSetting is one draw table: the candidate amounts for a trait at a box
// level. Amounts is a comma-separated decimal list.
type BoxSetting struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	CardTypeID string `gorm:"type:uuid;not null;index" json:"card_type_id"`
	Name       string `gorm:"type:varchar(64);not null" json:"name"`
	Type       string `gorm:"type:varchar(16);not null" json:"type"` // DOPAMINE | SEROTONIN
	Amounts    string `gorm:"type:text;not null" json:"amounts"`
	Level      int    `gorm:"not null;default:1;index" json:"level"`

	Timestamps
}
