package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"nft-market-system/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Card purchase modes. CREDIT is interface surface only, see PurchaseCard.
const (
	PurchaseModeMint    = "MINT"
	PurchaseModeAccount = "ACCOUNT"
	PurchaseModeCredit  = "CREDIT"
)

// ghostCardTypeName is the placeholder tier every fresh account holds until
// its first real purchase.
const ghostCardTypeName = "ghost"

// AuctionService creates, edits and settles auction lots.
type AuctionService struct {
	DB            *gorm.DB
	Registry      *RegistryService
	Wallets       *WalletService
	Attributes    *AttributeService
	Bus           *EventBus
	MainAssetCoin string
}

func NewAuctionService(db *gorm.DB, registry *RegistryService, wallets *WalletService,
	attributes *AttributeService, bus *EventBus, mainAssetCoin string) *AuctionService {
	return &AuctionService{
		DB:            db,
		Registry:      registry,
		Wallets:       wallets,
		Attributes:    attributes,
		Bus:           bus,
		MainAssetCoin: mainAssetCoin,
	}
}

// BatchAuctionInput describes a manager-created batch of identical lots.
type BatchAuctionInput struct {
	CardTypeID     string
	Start          time.Time
	End            time.Time
	ImmediatePrice decimal.Decimal
	Type           string // NORMAL | INITIAL
	InitialNumber  int
}

// AddAuctionBatch claims up to InitialNumber free cards of the type and
// creates one lot per claimed card. Partial fulfillment is fine; only a
// completely empty claim is an error (ErrNoSupply, never ErrInternal).
func (s *AuctionService) AddAuctionBatch(in BatchAuctionInput) ([]models.Auction, error) {
	var cardType models.CardType
	if err := s.DB.First(&cardType, "id = ?", in.CardTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: card type %s", ErrNotFound, in.CardTypeID)
		}
		return nil, fmt.Errorf("%w: load card type: %v", ErrInternal, err)
	}

	auctionType := in.Type
	if auctionType == "" {
		auctionType = models.AuctionTypeNormal
	}

	var auctions []models.Auction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		claimed, err := s.Registry.ClaimFree(tx, in.CardTypeID, in.InitialNumber, models.AssignedCardStatusInAuction)
		if err != nil {
			return err
		}

		start, end := in.Start, in.End
		for _, assignedCard := range claimed {
			id := assignedCard.ID
			auction := models.Auction{
				ID:             uuid.NewString(),
				AssignedCardID: &id,
				Start:          &start,
				End:            &end,
				ImmediatePrice: in.ImmediatePrice,
				Type:           auctionType,
				Status:         models.AuctionStatusActive,
			}
			if err := tx.Create(&auction).Error; err != nil {
				return fmt.Errorf("%w: create auction: %v", ErrInternal, err)
			}
			auctions = append(auctions, auction)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return auctions, nil
}

// AddUserAuction lists a user-owned card. The card must be FREE, owned by
// the seller with a tradable origin, and its design must not be common.
func (s *AuctionService) AddUserAuction(userID, assignedCardID string, start, end time.Time,
	basePrice, immediatePrice, bookingPrice decimal.Decimal) (*models.Auction, error) {

	var assignedCard models.AssignedCard
	err := s.DB.
		Joins("JOIN cards ON cards.id = assigned_cards.card_id AND cards.is_common = ?", false).
		Where("assigned_cards.id = ? AND assigned_cards.user_id = ? AND assigned_cards.status = ?",
			assignedCardID, userID, models.AssignedCardStatusFree).
		Where("assigned_cards.type IN ?", []string{
			models.AssignedCardTypeTransfer, models.AssignedCardTypeReward, models.AssignedCardTypeBox,
		}).
		First(&assignedCard).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no listable assigned card %s for user %s", ErrIneligible, assignedCardID, userID)
		}
		return nil, fmt.Errorf("%w: load assigned card: %v", ErrInternal, err)
	}

	auction := models.Auction{
		ID:             uuid.NewString(),
		AssignedCardID: &assignedCard.ID,
		UserID:         &userID,
		Start:          &start,
		End:            &end,
		BasePrice:      basePrice,
		ImmediatePrice: immediatePrice,
		BookingPrice:   bookingPrice,
		Type:           models.AuctionTypeNormal,
		Status:         models.AuctionStatusActive,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&auction).Error; err != nil {
			return fmt.Errorf("%w: create auction: %v", ErrInternal, err)
		}
		return s.Registry.Transition(tx, assignedCard.ID,
			models.AssignedCardStatusFree, models.AssignedCardStatusInAuction)
	})
	if err != nil {
		return nil, err
	}

	s.Bus.Publish(SettlementEvent{Kind: EventAuctionCreated, UserID: userID, Payload: auction})
	return &auction, nil
}

// AuctionPatch carries the mutable fields of an ACTIVE lot.
type AuctionPatch struct {
	Start          *time.Time
	End            *time.Time
	ImmediatePrice *decimal.Decimal
	Type           *string
}

// EditAuction updates mutable fields of an ACTIVE lot.
func (s *AuctionService) EditAuction(auctionID string, patch AuctionPatch) error {
	updates := map[string]any{}
	if patch.Start != nil {
		updates["start"] = *patch.Start
	}
	if patch.End != nil {
		updates["end"] = *patch.End
	}
	if patch.ImmediatePrice != nil {
		updates["immediate_price"] = *patch.ImmediatePrice
	}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.DB.Model(&models.Auction{}).
		Where("id = ? AND status = ?", auctionID, models.AuctionStatusActive).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%w: update auction: %v", ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: active auction %s", ErrNotFound, auctionID)
	}
	return nil
}

// DeleteAuction cancels a not-yet-finished lot: the card goes back to FREE
// and the lot row is removed.
func (s *AuctionService) DeleteAuction(auctionID string) error {
	var auction models.Auction
	err := s.DB.Where("id = ? AND status <> ?", auctionID, models.AuctionStatusFinished).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: auction %s", ErrNotFound, auctionID)
		}
		return fmt.Errorf("%w: load auction: %v", ErrInternal, err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if auction.AssignedCardID != nil {
			if err := s.Registry.Release(tx, *auction.AssignedCardID, models.AssignedCardStatusInAuction); err != nil {
				return err
			}
		}
		if err := tx.Delete(&auction).Error; err != nil {
			return fmt.Errorf("%w: delete auction: %v", ErrInternal, err)
		}
		return nil
	})
}

// PurchaseCard mints a unit of a card template for the buyer.
//
// MINT records the lot and burns one unit of supply; the payment itself
// settles off-platform. ACCOUNT settles against the buyer's main wallet in
// one transaction. CREDIT has no settlement semantics yet and is rejected.
func (s *AuctionService) PurchaseCard(cardID, mode, address, userID string) (string, error) {
	var card models.Card
	err := s.DB.Preload("CardType").First(&card, "id = ?", cardID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: card %s", ErrNotFound, cardID)
		}
		return "", fmt.Errorf("%w: load card: %v", ErrInternal, err)
	}
	if card.LeftAmount <= 0 {
		return "", fmt.Errorf("%w: card %s", ErrAlreadyMinted, cardID)
	}

	switch mode {
	case PurchaseModeMint:
		return s.purchaseCardMint(&card, address, userID)
	case PurchaseModeAccount:
		return s.purchaseCardAccount(&card, address, userID)
	case PurchaseModeCredit:
		return "", fmt.Errorf("%w: CREDIT purchase", ErrNotSupported)
	default:
		return "", fmt.Errorf("%w: purchase mode %q", ErrNotSupported, mode)
	}
}

func (s *AuctionService) purchaseCardMint(card *models.Card, address, userID string) (string, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		auction := models.Auction{
			ID:       uuid.NewString(),
			CardID:   &card.ID,
			UserID:   &userID,
			Price:    card.CardType.Price,
			MintType: "User",
			Address:  address,
			Status:   models.AuctionStatusActive,
		}
		if err := tx.Create(&auction).Error; err != nil {
			return fmt.Errorf("%w: create mint lot: %v", ErrInternal, err)
		}
		return s.decrementSupply(tx, card.ID)
	})
	if err != nil {
		return "", err
	}
	return "Successful", nil
}

func (s *AuctionService) purchaseCardAccount(card *models.Card, address, userID string) (string, error) {
	price := card.CardType.Price

	var mainAsset models.Asset
	err := s.DB.Where("coin = ? AND is_active = ?", s.MainAssetCoin, true).First(&mainAsset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: main asset %s", ErrNotFound, s.MainAssetCoin)
		}
		return "", fmt.Errorf("%w: load main asset: %v", ErrInternal, err)
	}

	var auction models.Auction
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		wallet, err := s.Wallets.GetOrCreate(tx, userID, mainAsset.ID)
		if err != nil {
			return err
		}
		if wallet.Amount.LessThan(price) {
			return fmt.Errorf("%w: wallet covers %s of %s", ErrInsufficientFunds, wallet.Amount, price)
		}

		auction = models.Auction{
			ID:       uuid.NewString(),
			CardID:   &card.ID,
			UserID:   &userID,
			Price:    price,
			MintType: "System",
			Address:  address,
			Status:   models.AuctionStatusActive,
		}
		if err := tx.Create(&auction).Error; err != nil {
			return fmt.Errorf("%w: create mint lot: %v", ErrInternal, err)
		}

		assignedCard := models.AssignedCard{
			ID:     uuid.NewString(),
			CardID: card.ID,
			UserID: &userID,
			Type:   models.AssignedCardTypeInSystem,
			Status: models.AssignedCardStatusSold,
		}
		if err := tx.Create(&assignedCard).Error; err != nil {
			return fmt.Errorf("%w: create assigned card: %v", ErrInternal, err)
		}

		if err := s.decrementSupply(tx, card.ID); err != nil {
			return err
		}
		if err := s.Wallets.Debit(tx, wallet.ID, price); err != nil {
			return err
		}

		res := tx.Model(&models.Auction{}).
			Where("id = ? AND status = ?", auction.ID, models.AuctionStatusActive).
			Update("status", models.AuctionStatusFinished)
		if res.Error != nil || res.RowsAffected == 0 {
			return fmt.Errorf("%w: finish mint lot %s", ErrConflict, auction.ID)
		}

		trade := models.AuctionTrade{
			ID:        uuid.NewString(),
			AuctionID: auction.ID,
			PayerID:   userID,
			Amount:    price,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return fmt.Errorf("%w: create auction trade: %v", ErrInternal, err)
		}

		if err := s.Attributes.AssignInitialAttributes(tx, userID, card); err != nil {
			return err
		}

		return s.removeGhostCard(tx, userID)
	})
	if err != nil {
		return "", err
	}

	log.Printf("[Auction] user %s purchased card %s for %s", userID, card.Name, price)
	s.Bus.Publish(SettlementEvent{Kind: EventCardPurchased, UserID: userID, Payload: auction})
	return "Successful", nil
}

// decrementSupply burns one unit of the card's remaining supply. The guard
// is in the statement: when two purchases race for the last unit, exactly
// one update matches and the loser sees ErrAlreadyMinted.
func (s *AuctionService) decrementSupply(tx *gorm.DB, cardID string) error {
	res := tx.Model(&models.Card{}).
		Where("id = ? AND left_amount > 0", cardID).
		Update("left_amount", gorm.Expr("left_amount - 1"))
	if res.Error != nil {
		return fmt.Errorf("%w: decrement supply: %v", ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: card %s", ErrAlreadyMinted, cardID)
	}
	return nil
}

// removeGhostCard drops the buyer's placeholder assigned card, if any.
func (s *AuctionService) removeGhostCard(tx *gorm.DB, userID string) error {
	var ghostCardIDs []string
	err := tx.Model(&models.Card{}).
		Joins("JOIN card_types ON card_types.id = cards.card_type_id").
		Where("card_types.name = ?", ghostCardTypeName).
		Pluck("cards.id", &ghostCardIDs).Error
	if err != nil {
		return fmt.Errorf("%w: load ghost cards: %v", ErrInternal, err)
	}
	if len(ghostCardIDs) == 0 {
		return nil
	}

	err = tx.Where("user_id = ? AND card_id IN ?", userID, ghostCardIDs).
		Delete(&models.AssignedCard{}).Error
	if err != nil {
		return fmt.Errorf("%w: remove ghost card: %v", ErrInternal, err)
	}
	return nil
}
