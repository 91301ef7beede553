package models

import (
	"github.com/shopspring/decimal"
)

const (
	AttributeTypeInitial = "INITIAL"
	AttributeTypeFee     = "FEE"
)

// Attribute is the per-tier trait schema: the starting amount every owner of
// a card in this tier receives at acquisition.
type Attribute struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	CardTypeID string          `gorm:"type:uuid;not null;index" json:"card_type_id"`
	Name       string          `gorm:"type:varchar(64);not null" json:"name"`
	Type       string          `gorm:"type:varchar(16);not null;default:'INITIAL'" json:"type"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"amount"`
	MaxAllowed decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"max_allowed"`
	Status     string          `gorm:"type:varchar(16);not null;default:'ACTIVE'" json:"status"`

	Timestamps
}

// UserAttribute is a trait value held by a user for one of their cards.
// Seeded exactly once when a card changes to user ownership; box rewards
// top up the lowest-amount matching row.
type UserAttribute struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CardID      string          `gorm:"type:uuid;not null;index" json:"card_id"`
	AttributeID string          `gorm:"type:uuid;not null;index" json:"attribute_id"`
	Type        string          `gorm:"type:varchar(16);not null;default:'INITIAL'" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"amount"`

	Attribute *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`

	Timestamps
}
