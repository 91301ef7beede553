package services

import (
	"fmt"

	"nft-market-system/models"

	"gorm.io/gorm"
)

// RegistryService owns the AssignedCard state machine. Claims, releases and
// ownership transfers all run on the caller's transaction and condition the
// write on the current status, so a stale read can never drive a transition.
type RegistryService struct {
	DB *gorm.DB
}

func NewRegistryService(db *gorm.DB) *RegistryService {
	return &RegistryService{DB: db}
}

// ClaimFree claims up to limit free, ownerless TRANSFER cards of the given
// card type and moves them to toStatus. Card designs already held by an open
// lot of the type are skipped so one design is never listed twice. Candidates
// are taken in id order to keep batch claiming deterministic. Returns
// ErrNoSupply when nothing could be claimed.
func (s *RegistryService) ClaimFree(tx *gorm.DB, cardTypeID string, limit int, toStatus string) ([]models.AssignedCard, error) {
	var duplicateCardIDs []string
	err := tx.Model(&models.AssignedCard{}).
		Joins("JOIN cards ON cards.id = assigned_cards.card_id").
		Where("assigned_cards.user_id IS NULL AND assigned_cards.type = ? AND assigned_cards.status = ?",
			models.AssignedCardTypeTransfer, models.AssignedCardStatusInAuction).
		Where("cards.card_type_id = ?", cardTypeID).
		Pluck("assigned_cards.card_id", &duplicateCardIDs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load duplicate cards: %v", ErrInternal, err)
	}

	query := tx.
		Joins("JOIN cards ON cards.id = assigned_cards.card_id").
		Where("assigned_cards.user_id IS NULL AND assigned_cards.type = ? AND assigned_cards.status = ?",
			models.AssignedCardTypeTransfer, models.AssignedCardStatusFree).
		Where("cards.card_type_id = ?", cardTypeID).
		Order("assigned_cards.id ASC").
		Limit(limit)
	if len(duplicateCardIDs) > 0 {
		query = query.Where("assigned_cards.card_id NOT IN ?", duplicateCardIDs)
	}

	var candidates []models.AssignedCard
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("%w: load free cards: %v", ErrInternal, err)
	}

	claimed := make([]models.AssignedCard, 0, len(candidates))
	for _, candidate := range candidates {
		res := tx.Model(&models.AssignedCard{}).
			Where("id = ? AND status = ?", candidate.ID, models.AssignedCardStatusFree).
			Update("status", toStatus)
		if res.Error != nil {
			return nil, fmt.Errorf("%w: claim card: %v", ErrInternal, res.Error)
		}
		if res.RowsAffected == 0 {
			// lost to a concurrent claim, skip
			continue
		}
		candidate.Status = toStatus
		claimed = append(claimed, candidate)
	}

	if len(claimed) == 0 {
		return nil, fmt.Errorf("%w: no free assigned card for card type %s", ErrNoSupply, cardTypeID)
	}
	return claimed, nil
}

// Transition moves a card from one status to another, guarded on the
// expected current status. A mismatch means someone else settled it first.
func (s *RegistryService) Transition(tx *gorm.DB, assignedCardID, fromStatus, toStatus string) error {
	res := tx.Model(&models.AssignedCard{}).
		Where("id = ? AND status = ?", assignedCardID, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return fmt.Errorf("%w: transition card: %v", ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: assigned card %s is not %s", ErrConflict, assignedCardID, fromStatus)
	}
	return nil
}

// Release reverts a claimed card back to FREE (cancelled lot or box).
func (s *RegistryService) Release(tx *gorm.DB, assignedCardID, fromStatus string) error {
	return s.Transition(tx, assignedCardID, fromStatus, models.AssignedCardStatusFree)
}

// TransferOwnership hands the card to userID with the given origin tag and
// working status, guarded on the expected current status. The caller seeds
// initial attributes exactly once after a successful transfer.
func (s *RegistryService) TransferOwnership(tx *gorm.DB, assignedCardID, userID, origin, toStatus, expectStatus string) error {
	res := tx.Model(&models.AssignedCard{}).
		Where("id = ? AND status = ?", assignedCardID, expectStatus).
		Updates(map[string]any{
			"user_id": userID,
			"type":    origin,
			"status":  toStatus,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: transfer card: %v", ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: assigned card %s is not %s", ErrConflict, assignedCardID, expectStatus)
	}
	return nil
}
