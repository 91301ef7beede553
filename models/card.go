package models

import (
	"github.com/shopspring/decimal"
)

// CardType is a card tier (pawn..king). Price is the mint price of every
// card belonging to the tier.
type CardType struct {
	ID     string          `gorm:"primaryKey;type:uuid" json:"id"`
	Name   string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	Price  decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Image  string          `gorm:"type:text" json:"image"`
	Status string          `gorm:"type:varchar(16);not null;default:'ACTIVE'" json:"status"`

	Timestamps
}

// Card is a mintable design with finite supply. LeftAmount only ever goes
// down, and only inside the same transaction that claims a unit of supply.
type Card struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	CardTypeID  string `gorm:"type:uuid;not null;index" json:"card_type_id"`
	Edition     int64  `gorm:"not null" json:"edition"` // on-chain token id
	Image       string `gorm:"type:text" json:"image"`
	TotalAmount int64  `gorm:"not null" json:"total_amount"`
	LeftAmount  int64  `gorm:"not null" json:"left_amount"`
	IsCommon    bool   `gorm:"not null;default:false" json:"is_common"`

	CardType *CardType `gorm:"foreignKey:CardTypeID" json:"card_type,omitempty"`

	Timestamps
}
