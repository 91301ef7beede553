package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"nft-market-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// boxImageNames are the tier names that have configured box artwork.
var boxImageNames = []string{"pawn", "rook", "knight", "bishop", "queen", "king"}

// Reward band constants for box resolution, r drawn uniformly from [0, 10).
// The gift-open path widens the no-reward band at level 5; the purchase path
// uses the same band at every level.
const (
	boxNoRewardBound       = 1.5
	boxNoRewardBoundLevel5 = 3.33
	boxReferralBound       = 4.5
)

// BoxService creates box listings and settles purchases, gift grants and
// gift opens. All probability draws go through the injected RandomSource and
// happen only after the listing row has been exclusively claimed.
type BoxService struct {
	DB         *gorm.DB
	Registry   *RegistryService
	Wallets    *WalletService
	Attributes *AttributeService
	Bus        *EventBus
	Rand       RandomSource
	CDNBaseURL string
}

func NewBoxService(db *gorm.DB, registry *RegistryService, wallets *WalletService,
	attributes *AttributeService, bus *EventBus, rand RandomSource, cdnBaseURL string) *BoxService {
	return &BoxService{
		DB:         db,
		Registry:   registry,
		Wallets:    wallets,
		Attributes: attributes,
		Bus:        bus,
		Rand:       rand,
		CDNBaseURL: cdnBaseURL,
	}
}

// BoxListingInput describes a manager-created batch of box listings.
type BoxListingInput struct {
	Name          string
	CardTypeID    string
	InitialNumber int
	Price         decimal.Decimal
	AssetID       string
	Level         int
}

// AddBox creates InitialNumber boxes with sequential display names, shuffles
// them so name order carries no information about creation order, and pairs
// each with an ACTIVE listing at Price/AssetID.
func (s *BoxService) AddBox(in BoxListingInput) ([]models.Box, error) {
	var asset models.Asset
	if err := s.DB.First(&asset, "id = ?", in.AssetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: asset %s", ErrNotFound, in.AssetID)
		}
		return nil, fmt.Errorf("%w: load asset: %v", ErrInternal, err)
	}

	var cardType models.CardType
	if err := s.DB.First(&cardType, "id = ?", in.CardTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: card type %s", ErrNotFound, in.CardTypeID)
		}
		return nil, fmt.Errorf("%w: load card type: %v", ErrInternal, err)
	}

	image, err := s.boxImageURL(cardType.Name)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.DB.Model(&models.Box{}).Where("card_type_id = ?", in.CardTypeID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("%w: count boxes: %v", ErrInternal, err)
	}
	counter := existing + 1

	boxes := make([]models.Box, in.InitialNumber)
	for i := range boxes {
		name := fmt.Sprintf("%s #%d", in.Name, counter)
		boxes[i] = models.Box{
			ID:              uuid.NewString(),
			Name:            name,
			Slug:            slug.Make(name),
			CardTypeID:      in.CardTypeID,
			Image:           image,
			Level:           in.Level,
			DopamineAmount:  decimal.Zero,
			SerotoninAmount: decimal.Zero,
			Status:          models.BoxStatusInAuction,
		}
		counter++
	}

	// Fisher-Yates, so listing order does not mirror the name sequence.
	for i := len(boxes) - 1; i > 0; i-- {
		j := s.Rand.Intn(i + 1)
		boxes[i], boxes[j] = boxes[j], boxes[i]
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range boxes {
			if err := tx.Create(&boxes[i]).Error; err != nil {
				return fmt.Errorf("%w: create box: %v", ErrInternal, err)
			}
			boxAuction := models.BoxAuction{
				ID:      uuid.NewString(),
				BoxID:   boxes[i].ID,
				AssetID: in.AssetID,
				Price:   in.Price,
				Status:  models.BoxAuctionStatusActive,
			}
			if err := tx.Create(&boxAuction).Error; err != nil {
				return fmt.Errorf("%w: create box auction: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return boxes, nil
}

func (s *BoxService) boxImageURL(cardTypeName string) (string, error) {
	lower := strings.ToLower(cardTypeName)
	for _, name := range boxImageNames {
		if name == lower {
			return fmt.Sprintf("%snft/box/%s.jpg", s.CDNBaseURL, name), nil
		}
	}
	return "", fmt.Errorf("%w: no box image for card type %q", ErrNotFound, cardTypeName)
}

// BoxPatch carries the mutable fields of an unsold box listing.
type BoxPatch struct {
	Name    *string
	Price   *decimal.Decimal
	AssetID *string
}

// EditBox updates a box and its listing while the box is still IN_AUCTION.
func (s *BoxService) EditBox(boxID string, patch BoxPatch) error {
	var box models.Box
	if err := s.DB.First(&box, "id = ?", boxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: box %s", ErrNotFound, boxID)
		}
		return fmt.Errorf("%w: load box: %v", ErrInternal, err)
	}
	if box.Status != models.BoxStatusInAuction {
		return fmt.Errorf("%w: box %s already traded", ErrConflict, boxID)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if patch.Name != nil {
			var count int64
			err := tx.Model(&models.Box{}).
				Where("name = ? AND id <> ?", *patch.Name, boxID).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("%w: check box name: %v", ErrInternal, err)
			}
			if count > 0 {
				return fmt.Errorf("%w: box name %q taken", ErrConflict, *patch.Name)
			}
			updates := map[string]any{"name": *patch.Name, "slug": slug.Make(*patch.Name)}
			if err := tx.Model(&models.Box{}).Where("id = ?", boxID).Updates(updates).Error; err != nil {
				return fmt.Errorf("%w: update box: %v", ErrInternal, err)
			}
		}
		if patch.Price != nil {
			err := tx.Model(&models.BoxAuction{}).
				Where("box_id = ?", boxID).
				Update("price", *patch.Price).Error
			if err != nil {
				return fmt.Errorf("%w: update box price: %v", ErrInternal, err)
			}
		}
		if patch.AssetID != nil {
			var asset models.Asset
			if err := tx.First(&asset, "id = ?", *patch.AssetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: asset %s", ErrNotFound, *patch.AssetID)
				}
				return fmt.Errorf("%w: load asset: %v", ErrInternal, err)
			}
			err := tx.Model(&models.BoxAuction{}).
				Where("box_id = ?", boxID).
				Update("asset_id", *patch.AssetID).Error
			if err != nil {
				return fmt.Errorf("%w: update box asset: %v", ErrInternal, err)
			}
		}
		return nil
	})
}

// DeleteBox removes an unsold box and its listing, releasing any reserved
// card back to FREE.
func (s *BoxService) DeleteBox(boxID string) error {
	var box models.Box
	if err := s.DB.First(&box, "id = ?", boxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: box %s", ErrNotFound, boxID)
		}
		return fmt.Errorf("%w: load box: %v", ErrInternal, err)
	}
	if box.Status != models.BoxStatusInAuction {
		return fmt.Errorf("%w: box %s already traded", ErrConflict, boxID)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if box.CardID != nil {
			err := tx.Model(&models.AssignedCard{}).
				Where("card_id = ? AND status = ?", *box.CardID, models.AssignedCardStatusInBox).
				Updates(map[string]any{
					"status": models.AssignedCardStatusFree,
					"type":   models.AssignedCardTypeTransfer,
				}).Error
			if err != nil {
				return fmt.Errorf("%w: release box card: %v", ErrInternal, err)
			}
		}
		if err := tx.Where("box_id = ?", boxID).Delete(&models.BoxAuction{}).Error; err != nil {
			return fmt.Errorf("%w: delete box auction: %v", ErrInternal, err)
		}
		if err := tx.Delete(&box).Error; err != nil {
			return fmt.Errorf("%w: delete box: %v", ErrInternal, err)
		}
		return nil
	})
}

// boxReward is the resolved payload of one box.
type boxReward struct {
	Dopamine  decimal.Decimal
	Serotonin decimal.Decimal
	Referral  int
	HasTraits bool
}

// drawReward resolves a box payload from one uniform draw r in [0, 10).
// giftOpen selects the open-path band set, which widens the no-reward band
// at level 5.
func (s *BoxService) drawReward(tx *gorm.DB, level int, giftOpen bool) (boxReward, error) {
	r := s.Rand.Float64() * 10

	reward := boxReward{Dopamine: decimal.Zero, Serotonin: decimal.Zero}
	if r >= boxReferralBound {
		reward.Referral = 3 + s.Rand.Intn(2) // integer in [3, 5)
	}

	noTraits := r < boxNoRewardBound
	if giftOpen {
		noTraits = level == 5 && r < boxNoRewardBoundLevel5
	}
	if noTraits {
		return reward, nil
	}

	dopamine, err := s.drawSettingAmount(tx, level, models.BoxSettingTypeDopamine)
	if err != nil {
		return reward, err
	}
	serotonin, err := s.drawSettingAmount(tx, level, models.BoxSettingTypeSerotonin)
	if err != nil {
		return reward, err
	}
	reward.Dopamine = dopamine
	reward.Serotonin = serotonin
	reward.HasTraits = true
	return reward, nil
}

// drawSettingAmount picks one value uniformly from the level's configured
// amount list for the given trait.
func (s *BoxService) drawSettingAmount(tx *gorm.DB, level int, settingType string) (decimal.Decimal, error) {
	var setting models.BoxSetting
	err := tx.Where("level = ? AND type = ?", level, settingType).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: box setting level %d type %s", ErrNotFound, level, settingType)
		}
		return decimal.Zero, fmt.Errorf("%w: load box setting: %v", ErrInternal, err)
	}

	amounts, err := parseAmounts(setting.Amounts)
	if err != nil || len(amounts) == 0 {
		return decimal.Zero, fmt.Errorf("%w: box setting %s has no usable amounts", ErrInternal, setting.ID)
	}
	return amounts[s.Rand.Intn(len(amounts))], nil
}

func parseAmounts(raw string) ([]decimal.Decimal, error) {
	parts := strings.Split(raw, ",")
	amounts := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		amount, err := decimal.NewFromString(part)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}

// PurchaseBox settles the purchase of an active box listing: the listing is
// claimed exclusively, the payload resolved, and trade, referral counter,
// box state, wallet debit and ownership written as one transaction.
func (s *BoxService) PurchaseBox(boxAuctionID, userID string) (*models.Box, error) {
	var auction models.BoxAuction
	err := s.DB.Preload("Box").Preload("Asset").
		Joins("JOIN boxes ON boxes.id = box_auctions.box_id AND boxes.status = ?", models.BoxStatusInAuction).
		Where("box_auctions.id = ? AND box_auctions.status = ?", boxAuctionID, models.BoxAuctionStatusActive).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: active box auction %s", ErrNotFound, boxAuctionID)
		}
		return nil, fmt.Errorf("%w: load box auction: %v", ErrInternal, err)
	}
	box := auction.Box

	// buyer must already hold a card of the box's tier
	var owned int64
	err = s.DB.Model(&models.AssignedCard{}).
		Joins("JOIN cards ON cards.id = assigned_cards.card_id").
		Where("assigned_cards.user_id = ? AND cards.card_type_id = ?", userID, box.CardTypeID).
		Count(&owned).Error
	if err != nil {
		return nil, fmt.Errorf("%w: check eligibility: %v", ErrInternal, err)
	}
	if owned == 0 {
		return nil, fmt.Errorf("%w: user %s holds no card of the box's type", ErrIneligible, userID)
	}

	var resolved boxReward
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// claim the listing before any draw; the loser of a race stops here
		res := tx.Model(&models.BoxAuction{}).
			Where("id = ? AND status = ?", auction.ID, models.BoxAuctionStatusActive).
			Update("status", models.BoxAuctionStatusFinished)
		if res.Error != nil {
			return fmt.Errorf("%w: finish box auction: %v", ErrInternal, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: box auction %s already settled", ErrNotFound, auction.ID)
		}

		wallet, err := s.Wallets.GetOrCreate(tx, userID, auction.AssetID)
		if err != nil {
			return err
		}
		if wallet.Amount.LessThan(auction.Price) {
			return fmt.Errorf("%w: wallet covers %s of %s", ErrInsufficientFunds, wallet.Amount, auction.Price)
		}

		resolved, err = s.drawReward(tx, box.Level, false)
		if err != nil {
			return err
		}
		if resolved.HasTraits {
			if err := s.applyTraits(tx, userID, box.CardTypeID, resolved); err != nil {
				return err
			}
		}

		trade := models.BoxTrade{
			ID:           uuid.NewString(),
			UserID:       userID,
			BoxAuctionID: auction.ID,
			Amount:       auction.Price,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return fmt.Errorf("%w: create box trade: %v", ErrInternal, err)
		}

		if resolved.Referral > 0 {
			err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				Update("referral_code_count", gorm.Expr("referral_code_count + ?", resolved.Referral)).Error
			if err != nil {
				return fmt.Errorf("%w: increment referral count: %v", ErrInternal, err)
			}
		}

		if err := s.sellBox(tx, box.ID, resolved); err != nil {
			return err
		}
		if err := s.Wallets.Debit(tx, wallet.ID, auction.Price); err != nil {
			return err
		}

		userBox := models.UserBox{
			ID:           uuid.NewString(),
			UserID:       userID,
			BoxID:        box.ID,
			BoxAuctionID: auction.ID,
		}
		if err := tx.Create(&userBox).Error; err != nil {
			return fmt.Errorf("%w: create user box: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Box] user %s purchased box %s for %s", userID, box.Name, auction.Price)

	result, err := s.reloadBox(box.ID)
	if err != nil {
		return nil, err
	}
	s.Bus.Publish(SettlementEvent{Kind: EventBoxPurchased, UserID: userID, Payload: result})
	return result, nil
}

// OpenGiftBox resolves a box the user already owns unopened. Same resolution
// as PurchaseBox but without a debit; the ownership row flips to opened
// exactly once.
func (s *BoxService) OpenGiftBox(boxAuctionID, userID string) (*models.Box, error) {
	var auction models.BoxAuction
	err := s.DB.Preload("Box").Preload("Asset").
		Joins("JOIN boxes ON boxes.id = box_auctions.box_id AND boxes.status = ?", models.BoxStatusSold).
		Where("box_auctions.id = ?", boxAuctionID).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: box auction %s", ErrNotFound, boxAuctionID)
		}
		return nil, fmt.Errorf("%w: load box auction: %v", ErrInternal, err)
	}
	box := auction.Box

	var userBox models.UserBox
	err = s.DB.Where("user_id = ? AND box_auction_id = ? AND box_id = ?", userID, auction.ID, box.ID).
		First(&userBox).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s owns no such box", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: load user box: %v", ErrInternal, err)
	}
	if userBox.IsOpened {
		return nil, fmt.Errorf("%w: box already opened", ErrConflict)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// flip the ownership row first; a concurrent open loses here and no
		// randomness is consumed on its behalf
		res := tx.Model(&models.UserBox{}).
			Where("id = ? AND is_opened = ?", userBox.ID, false).
			Update("is_opened", true)
		if res.Error != nil {
			return fmt.Errorf("%w: open user box: %v", ErrInternal, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: box already opened", ErrConflict)
		}

		resolved, err := s.drawReward(tx, box.Level, true)
		if err != nil {
			return err
		}
		if resolved.HasTraits {
			if err := s.applyTraits(tx, userID, box.CardTypeID, resolved); err != nil {
				return err
			}
		}

		trade := models.BoxTrade{
			ID:           uuid.NewString(),
			UserID:       userID,
			BoxAuctionID: auction.ID,
			Amount:       decimal.Zero,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return fmt.Errorf("%w: create box trade: %v", ErrInternal, err)
		}

		if resolved.Referral > 0 {
			err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				Update("referral_code_count", gorm.Expr("referral_code_count + ?", resolved.Referral)).Error
			if err != nil {
				return fmt.Errorf("%w: increment referral count: %v", ErrInternal, err)
			}
		}

		err = tx.Model(&models.BoxAuction{}).
			Where("id = ?", auction.ID).
			Update("status", models.BoxAuctionStatusFinished).Error
		if err != nil {
			return fmt.Errorf("%w: finish box auction: %v", ErrInternal, err)
		}

		return s.sellBox(tx, box.ID, resolved)
	})
	if err != nil {
		return nil, err
	}

	result, err := s.reloadBox(box.ID)
	if err != nil {
		return nil, err
	}
	s.Bus.Publish(SettlementEvent{Kind: EventBoxOpened, UserID: userID, Payload: result})
	return result, nil
}

func (s *BoxService) applyTraits(tx *gorm.DB, userID, cardTypeID string, reward boxReward) error {
	err := s.Attributes.ApplyBoxAttribute(tx, userID, cardTypeID, models.BoxSettingTypeDopamine, reward.Dopamine)
	if err != nil {
		return err
	}
	return s.Attributes.ApplyBoxAttribute(tx, userID, cardTypeID, models.BoxSettingTypeSerotonin, reward.Serotonin)
}

func (s *BoxService) sellBox(tx *gorm.DB, boxID string, reward boxReward) error {
	err := tx.Model(&models.Box{}).
		Where("id = ?", boxID).
		Updates(map[string]any{
			"dopamine_amount":  reward.Dopamine,
			"serotonin_amount": reward.Serotonin,
			"referral_count":   reward.Referral,
			"card_id":          nil,
			"status":           models.BoxStatusSold,
		}).Error
	if err != nil {
		return fmt.Errorf("%w: update box: %v", ErrInternal, err)
	}
	return nil
}

func (s *BoxService) reloadBox(boxID string) (*models.Box, error) {
	var box models.Box
	err := s.DB.Preload("Card").Preload("CardType").First(&box, "id = ?", boxID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: reload box: %v", ErrInternal, err)
	}
	return &box, nil
}

// GiftBoxToUser grants the user a level-1 box of the given card type without
// payment. The user must hold a card of the type; the cheapest active
// listing is consumed.
func (s *BoxService) GiftBoxToUser(userID, cardTypeID string) error {
	var owned int64
	err := s.DB.Model(&models.AssignedCard{}).
		Joins("JOIN cards ON cards.id = assigned_cards.card_id").
		Where("assigned_cards.user_id = ? AND cards.card_type_id = ?", userID, cardTypeID).
		Count(&owned).Error
	if err != nil {
		return fmt.Errorf("%w: check eligibility: %v", ErrInternal, err)
	}
	if owned == 0 {
		return fmt.Errorf("%w: user %s holds no card of type %s", ErrIneligible, userID, cardTypeID)
	}

	var auction models.BoxAuction
	err = s.DB.Preload("Box").
		Joins("JOIN boxes ON boxes.id = box_auctions.box_id").
		Where("box_auctions.status = ?", models.BoxAuctionStatusActive).
		Where("boxes.card_type_id = ? AND boxes.status = ? AND boxes.level = ?",
			cardTypeID, models.BoxStatusInAuction, 1).
		Order("box_auctions.price ASC").
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no giftable box for card type %s", ErrNotFound, cardTypeID)
		}
		return fmt.Errorf("%w: load box auction: %v", ErrInternal, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.BoxAuction{}).
			Where("id = ? AND status = ?", auction.ID, models.BoxAuctionStatusActive).
			Update("status", models.BoxAuctionStatusFinished)
		if res.Error != nil {
			return fmt.Errorf("%w: finish box auction: %v", ErrInternal, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: box auction %s already settled", ErrNotFound, auction.ID)
		}

		err := tx.Model(&models.Box{}).
			Where("id = ?", auction.BoxID).
			Update("status", models.BoxStatusSold).Error
		if err != nil {
			return fmt.Errorf("%w: update box: %v", ErrInternal, err)
		}

		userBox := models.UserBox{
			ID:           uuid.NewString(),
			UserID:       userID,
			BoxID:        auction.BoxID,
			BoxAuctionID: auction.ID,
		}
		if err := tx.Create(&userBox).Error; err != nil {
			return fmt.Errorf("%w: create user box: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Bus.Publish(SettlementEvent{Kind: EventBoxGifted, UserID: userID, Payload: auction})
	return nil
}

// ConfirmBoxCard finishes the physical-card prize branch: seeds attributes,
// releases the reserved card and records the delivery address. The branch is
// unreachable under the current reward bands but the surface is kept.
func (s *BoxService) ConfirmBoxCard(cardID, address, userID string) (string, error) {
	var box models.Box
	err := s.DB.Where("card_id = ? AND status = ?", cardID, models.BoxStatusSold).First(&box).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: sold box holding card %s", ErrNotFound, cardID)
		}
		return "", fmt.Errorf("%w: load box: %v", ErrInternal, err)
	}

	var auction models.BoxAuction
	err = s.DB.Where("box_id = ? AND status = ?", box.ID, models.BoxAuctionStatusFinished).First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: finished auction for box %s", ErrNotFound, box.ID)
		}
		return "", fmt.Errorf("%w: load box auction: %v", ErrInternal, err)
	}

	var assignedCard models.AssignedCard
	err = s.DB.Preload("Card").
		Where("user_id = ? AND card_id = ? AND status = ?", userID, cardID, models.AssignedCardStatusReserved).
		First(&assignedCard).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: reserved card %s for user %s", ErrNotFound, cardID, userID)
		}
		return "", fmt.Errorf("%w: load assigned card: %v", ErrInternal, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Attributes.AssignInitialAttributes(tx, userID, assignedCard.Card); err != nil {
			return err
		}
		if err := s.Registry.Release(tx, assignedCard.ID, models.AssignedCardStatusReserved); err != nil {
			return err
		}
		err := tx.Model(&models.BoxTrade{}).
			Where("user_id = ? AND box_auction_id = ?", userID, auction.ID).
			Update("address", address).Error
		if err != nil {
			return fmt.Errorf("%w: update box trade: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return "Successful", nil
}
