package services

import (
	"fmt"
	"testing"

	"nft-market-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The DSN is unique so
// parallel tests never share state; one connection keeps sqlite transactions
// well-behaved.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CardType{},
		&models.Card{},
		&models.AssignedCard{},
		&models.Auction{},
		&models.AuctionTrade{},
		&models.Box{},
		&models.BoxAuction{},
		&models.UserBox{},
		&models.BoxTrade{},
		&models.BoxSetting{},
		&models.Asset{},
		&models.UserWallet{},
		&models.Attribute{},
		&models.UserAttribute{},
		&models.UserNotification{},
		&models.ManagerNotification{},
	))
	return db
}

// testEnv bundles the shared service graph for settlement tests.
type testEnv struct {
	db         *gorm.DB
	bus        *EventBus
	registry   *RegistryService
	wallets    *WalletService
	attributes *AttributeService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	return &testEnv{
		db:         db,
		bus:        NewEventBus(),
		registry:   NewRegistryService(db),
		wallets:    NewWalletService(db),
		attributes: NewAttributeService(db),
	}
}

func (e *testEnv) auctionService() *AuctionService {
	return NewAuctionService(e.db, e.registry, e.wallets, e.attributes, e.bus, "BNB")
}

func (e *testEnv) boxService(r RandomSource) *BoxService {
	return NewBoxService(e.db, e.registry, e.wallets, e.attributes, e.bus, r, "https://cdn.test/")
}

// scriptRand replays scripted draws so reward bands can be hit exactly.
// An exhausted script returns zero, which is itself a valid draw.
type scriptRand struct {
	floats []float64
	ints   []int
}

func (s *scriptRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Name: "player"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAsset(t *testing.T, db *gorm.DB, coin string) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		ID:          uuid.NewString(),
		Coin:        coin,
		Name:        coin,
		Precision:   8,
		CanDeposit:  true,
		CanWithdraw: true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}

func seedWallet(t *testing.T, db *gorm.DB, userID, assetID string, amount decimal.Decimal) *models.UserWallet {
	t.Helper()
	wallet := &models.UserWallet{
		ID:      uuid.NewString(),
		UserID:  userID,
		AssetID: assetID,
		Amount:  amount,
		Frozen:  decimal.Zero,
		Pending: decimal.Zero,
	}
	require.NoError(t, db.Create(wallet).Error)
	return wallet
}

func seedCardType(t *testing.T, db *gorm.DB, name string, price decimal.Decimal) *models.CardType {
	t.Helper()
	cardType := &models.CardType{
		ID:     uuid.NewString(),
		Name:   name,
		Price:  price,
		Status: "ACTIVE",
	}
	require.NoError(t, db.Create(cardType).Error)
	return cardType
}

func seedCard(t *testing.T, db *gorm.DB, cardTypeID string, total int64) *models.Card {
	t.Helper()
	card := &models.Card{
		ID:          uuid.NewString(),
		Name:        "card " + uuid.NewString()[:8],
		CardTypeID:  cardTypeID,
		Edition:     1,
		TotalAmount: total,
		LeftAmount:  total,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

// seedAssignedCard fills an ID when the caller left it empty.
func seedAssignedCard(t *testing.T, db *gorm.DB, assignedCard models.AssignedCard) *models.AssignedCard {
	t.Helper()
	if assignedCard.ID == "" {
		assignedCard.ID = uuid.NewString()
	}
	require.NoError(t, db.Create(&assignedCard).Error)
	return &assignedCard
}

func seedAttribute(t *testing.T, db *gorm.DB, cardTypeID, name string, amount decimal.Decimal) *models.Attribute {
	t.Helper()
	attribute := &models.Attribute{
		ID:         uuid.NewString(),
		CardTypeID: cardTypeID,
		Name:       name,
		Type:       models.AttributeTypeInitial,
		Amount:     amount,
		Status:     "ACTIVE",
	}
	require.NoError(t, db.Create(attribute).Error)
	return attribute
}

func seedUserAttribute(t *testing.T, db *gorm.DB, userID, cardID, attributeID string, amount decimal.Decimal) *models.UserAttribute {
	t.Helper()
	userAttribute := &models.UserAttribute{
		ID:          uuid.NewString(),
		UserID:      userID,
		CardID:      cardID,
		AttributeID: attributeID,
		Type:        models.AttributeTypeInitial,
		Amount:      amount,
	}
	require.NoError(t, db.Create(userAttribute).Error)
	return userAttribute
}

func seedBoxSetting(t *testing.T, db *gorm.DB, cardTypeID, settingType string, level int, amounts string) *models.BoxSetting {
	t.Helper()
	setting := &models.BoxSetting{
		ID:         uuid.NewString(),
		CardTypeID: cardTypeID,
		Name:       settingType,
		Type:       settingType,
		Amounts:    amounts,
		Level:      level,
	}
	require.NoError(t, db.Create(setting).Error)
	return setting
}

func seedBoxListing(t *testing.T, db *gorm.DB, cardTypeID, assetID string, level int, price decimal.Decimal) (*models.Box, *models.BoxAuction) {
	t.Helper()
	box := &models.Box{
		ID:              uuid.NewString(),
		Name:            "box " + uuid.NewString()[:8],
		Slug:            "box-" + uuid.NewString()[:8],
		CardTypeID:      cardTypeID,
		Level:           level,
		DopamineAmount:  decimal.Zero,
		SerotoninAmount: decimal.Zero,
		Status:          models.BoxStatusInAuction,
	}
	require.NoError(t, db.Create(box).Error)

	auction := &models.BoxAuction{
		ID:      uuid.NewString(),
		BoxID:   box.ID,
		AssetID: assetID,
		Price:   price,
		Status:  models.BoxAuctionStatusActive,
	}
	require.NoError(t, db.Create(auction).Error)
	return box, auction
}
