package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nft-market-system/middleware"
	"nft-market-system/models"
	"nft-market-system/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
		&models.User{}, &models.CardType{}, &models.Card{}, &models.AssignedCard{},
		&models.Auction{}, &models.AuctionTrade{},
		&models.Box{}, &models.BoxAuction{}, &models.UserBox{}, &models.BoxTrade{},
		&models.BoxSetting{}, &models.Asset{}, &models.UserWallet{},
		&models.Attribute{}, &models.UserAttribute{},
	))

	bus := services.NewEventBus()
	registry := services.NewRegistryService(db)
	wallets := services.NewWalletService(db)
	attributes := services.NewAttributeService(db)
	auctionSvc := services.NewAuctionService(db, registry, wallets, attributes, bus, "BNB")
	boxSvc := services.NewBoxService(db, registry, wallets, attributes, bus,
		services.NewRandomSource(1), "https://cdn.test/")

	app := fiber.New()
	app.Use(middleware.UserContextMiddleware())
	SetupAuctionRoutes(app, auctionSvc)
	SetupBoxRoutes(app, boxSvc)
	return app, db
}

func jsonRequest(t *testing.T, method, path string, body any, headers map[string]string) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return req
}

func TestSecuredRoutesRequireUserHeader(t *testing.T) {
	app, _ := newTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/s/boxes/purchase",
		map[string]string{"box_auction_id": "x"}, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesRequireManagerRole(t *testing.T) {
	app, _ := newTestApp(t)

	headers := map[string]string{"X-User-ID": uuid.NewString(), "X-User-Roles": "user"}
	req := jsonRequest(t, http.MethodPost, "/s/admin/boxes", map[string]any{}, headers)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	headers["X-User-Roles"] = "user,manager"
	req = jsonRequest(t, http.MethodDelete, "/s/admin/boxes/"+uuid.NewString(), map[string]any{}, headers)
	resp, err = app.Test(req)
	require.NoError(t, err)
	// past the guard now; the box simply does not exist
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseCardEndpointStatuses(t *testing.T) {
	app, db := newTestApp(t)

	user := &models.User{ID: uuid.NewString(), Name: "player"}
	require.NoError(t, db.Create(user).Error)
	cardType := &models.CardType{ID: uuid.NewString(), Name: "pawn", Price: decimal.NewFromInt(100), Status: "ACTIVE"}
	require.NoError(t, db.Create(cardType).Error)
	card := &models.Card{
		ID: uuid.NewString(), Name: "pawn of dawn", CardTypeID: cardType.ID,
		Edition: 1, TotalAmount: 2, LeftAmount: 2,
	}
	require.NoError(t, db.Create(card).Error)
	asset := &models.Asset{ID: uuid.NewString(), Coin: "BNB", Name: "BNB", IsActive: true}
	require.NoError(t, db.Create(asset).Error)
	require.NoError(t, db.Create(&models.UserWallet{
		ID: uuid.NewString(), UserID: user.ID, AssetID: asset.ID, Amount: decimal.NewFromInt(10),
	}).Error)

	headers := map[string]string{"X-User-ID": user.ID}

	req := jsonRequest(t, http.MethodPost, "/s/auctions/purchase",
		map[string]string{"card_id": card.ID, "type": "MINT"}, headers)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 10 BNB does not cover a 100 BNB card
	req = jsonRequest(t, http.MethodPost, "/s/auctions/purchase",
		map[string]string{"card_id": card.ID, "type": "ACCOUNT"}, headers)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	req = jsonRequest(t, http.MethodPost, "/s/auctions/purchase",
		map[string]string{"card_id": card.ID, "type": "CREDIT"}, headers)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = jsonRequest(t, http.MethodPost, "/s/auctions/purchase",
		map[string]string{"card_id": uuid.NewString(), "type": "MINT"}, headers)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseBoxEndpointIneligible(t *testing.T) {
	app, db := newTestApp(t)

	user := &models.User{ID: uuid.NewString(), Name: "player"}
	require.NoError(t, db.Create(user).Error)
	cardType := &models.CardType{ID: uuid.NewString(), Name: "pawn", Price: decimal.NewFromInt(100), Status: "ACTIVE"}
	require.NoError(t, db.Create(cardType).Error)
	asset := &models.Asset{ID: uuid.NewString(), Coin: "BNB", Name: "BNB", IsActive: true}
	require.NoError(t, db.Create(asset).Error)
	box := &models.Box{
		ID: uuid.NewString(), Name: "genesis #1", Slug: "genesis-1",
		CardTypeID: cardType.ID, Level: 1, Status: models.BoxStatusInAuction,
		DopamineAmount: decimal.Zero, SerotoninAmount: decimal.Zero,
	}
	require.NoError(t, db.Create(box).Error)
	listing := &models.BoxAuction{
		ID: uuid.NewString(), BoxID: box.ID, AssetID: asset.ID,
		Price: decimal.NewFromInt(25), Status: models.BoxAuctionStatusActive,
	}
	require.NoError(t, db.Create(listing).Error)

	// holds no card of the box's tier
	req := jsonRequest(t, http.MethodPost, "/s/boxes/purchase",
		map[string]string{"box_auction_id": listing.ID},
		map[string]string{"X-User-ID": user.ID})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
