package services

import (
	"errors"
	"fmt"

	"nft-market-system/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AttributeService seeds and tops up per-user card traits.
type AttributeService struct {
	DB *gorm.DB
}

func NewAttributeService(db *gorm.DB) *AttributeService {
	return &AttributeService{DB: db}
}

// AssignInitialAttributes creates one UserAttribute per ACTIVE INITIAL
// attribute of the card's type, at the schema's starting amount. The caller
// invokes this exactly once per ownership transfer, on its own transaction.
func (s *AttributeService) AssignInitialAttributes(tx *gorm.DB, userID string, card *models.Card) error {
	var attributes []models.Attribute
	err := tx.Where("card_type_id = ? AND type = ? AND status = ?",
		card.CardTypeID, models.AttributeTypeInitial, "ACTIVE").
		Find(&attributes).Error
	if err != nil {
		return fmt.Errorf("%w: load attributes: %v", ErrInternal, err)
	}

	for _, attribute := range attributes {
		userAttribute := models.UserAttribute{
			ID:          uuid.NewString(),
			UserID:      userID,
			CardID:      card.ID,
			AttributeID: attribute.ID,
			Type:        attribute.Type,
			Amount:      attribute.Amount,
		}
		if err := tx.Create(&userAttribute).Error; err != nil {
			return fmt.Errorf("%w: create user attribute: %v", ErrInternal, err)
		}
	}
	return nil
}

// ApplyBoxAttribute increments the user's lowest-amount INITIAL trait
// matching name/cardTypeID by amount. Holding none is a no-op, not an error.
func (s *AttributeService) ApplyBoxAttribute(tx *gorm.DB, userID, cardTypeID, name string, amount decimal.Decimal) error {
	var userAttribute models.UserAttribute
	err := tx.
		Joins("JOIN attributes ON attributes.id = user_attributes.attribute_id").
		Where("user_attributes.user_id = ? AND user_attributes.type = ?", userID, models.AttributeTypeInitial).
		Where("attributes.card_type_id = ? AND attributes.name = ? AND attributes.type = ?",
			cardTypeID, name, models.AttributeTypeInitial).
		Order("user_attributes.amount ASC").
		First(&userAttribute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("%w: load user attributes: %v", ErrInternal, err)
	}

	res := tx.Model(&models.UserAttribute{}).
		Where("id = ?", userAttribute.ID).
		Update("amount", gorm.Expr("amount + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("%w: increment attribute: %v", ErrInternal, res.Error)
	}
	return nil
}
