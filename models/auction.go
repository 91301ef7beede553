package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AuctionStatusActive   = "ACTIVE"
	AuctionStatusFinished = "FINISHED"
)

const (
	AuctionTypeNormal  = "NORMAL"
	AuctionTypeInitial = "INITIAL"
)

// Auction is a time-boxed offer to transfer one AssignedCard. Mint purchase
// lots carry CardID/Price/MintType instead of an AssignedCardID; the window
// is advisory display data and never finishes a lot on its own.
type Auction struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	AssignedCardID *string    `gorm:"type:uuid;index" json:"assigned_card_id,omitempty"`
	UserID         *string    `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil for system lots
	CardID         *string    `gorm:"type:uuid;index" json:"card_id,omitempty"` // mint lots only
	Start          *time.Time `json:"start,omitempty"`
	End            *time.Time `json:"end,omitempty"`

	BasePrice      decimal.Decimal `gorm:"type:numeric" json:"base_price"`
	ImmediatePrice decimal.Decimal `gorm:"type:numeric" json:"immediate_price"`
	BookingPrice   decimal.Decimal `gorm:"type:numeric" json:"booking_price"`
	Price          decimal.Decimal `gorm:"type:numeric" json:"price"` // mint lots

	MintType string `gorm:"type:varchar(16)" json:"mint_type,omitempty"` // User | System
	Address  string `gorm:"type:varchar(128)" json:"address,omitempty"`
	Type     string `gorm:"type:varchar(16);not null;default:'NORMAL'" json:"type"`
	Status   string `gorm:"type:varchar(16);not null;default:'ACTIVE';index" json:"status"`

	AssignedCard *AssignedCard `gorm:"foreignKey:AssignedCardID" json:"assigned_card,omitempty"`

	Timestamps
}

// AuctionTrade is the append-only settlement record of an auction. Rows are
// written once inside the settlement transaction and never updated.
type AuctionTrade struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	AuctionID string          `gorm:"type:uuid;not null;index" json:"auction_id"`
	PayerID   string          `gorm:"type:uuid;not null;index" json:"payer_id"`
	PayeeID   *string         `gorm:"type:uuid;index" json:"payee_id,omitempty"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
