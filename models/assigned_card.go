package models

// AssignedCard statuses. FREE cards are claimable; everything else is an
// active claim held by exactly one lot, box or owner.
const (
	AssignedCardStatusFree      = "FREE"
	AssignedCardStatusInAuction = "IN_AUCTION"
	AssignedCardStatusReserved  = "RESERVED"
	AssignedCardStatusInBox     = "IN_BOX"
	AssignedCardStatusInGame    = "IN_GAME"
	AssignedCardStatusSold      = "SOLD"
)

// AssignedCard origin tags: how the holder came to hold the card.
const (
	AssignedCardTypeTransfer = "TRANSFER"
	AssignedCardTypeReward   = "REWARD"
	AssignedCardTypeBox      = "BOX"
	AssignedCardTypeInSystem = "IN_SYSTEM"
)

// AssignedCard is one concrete, ownable unit of a Card. Rows are never
// deleted, only status-transitioned; every transition is a conditional
// update guarded on the previous status.
type AssignedCard struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	CardID    string  `gorm:"type:uuid;not null;index" json:"card_id"`
	UserID    *string `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil until owned
	Type      string  `gorm:"type:varchar(16);not null;default:'TRANSFER'" json:"type"`
	Status    string  `gorm:"type:varchar(16);not null;default:'FREE';index" json:"status"`
	UsedCount int     `gorm:"not null;default:0" json:"used_count"`

	Card *Card `gorm:"foreignKey:CardID" json:"card,omitempty"`

	Timestamps
}
