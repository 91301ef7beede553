package workers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nft-market-system/models"
	"nft-market-system/services"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

	require.NoError(t, db.AutoMigrate(&models.UserNotification{}, &models.ManagerNotification{}))
	return db
}

func TestNotifierWritesUserAndManagerRows(t *testing.T) {
	db := newTestDB(t)
	bus := services.NewEventBus()
	worker := NewNotifierWorker(db, bus)

	require.NoError(t, worker.handle(services.SettlementEvent{
		Kind:   services.EventCardPurchased,
		UserID: "u1",
	}))

	var userNote models.UserNotification
	require.NoError(t, db.First(&userNote, "user_id = ?", "u1").Error)
	assert.Equal(t, "NFT Purchase", userNote.Title)
	assert.False(t, userNote.Viewed)

	var managerNote models.ManagerNotification
	require.NoError(t, db.First(&managerNote, "user_id = ?", "u1").Error)
	assert.Equal(t, "Card Purchase", managerNote.Title)
	assert.Equal(t, services.EventCardPurchased, managerNote.Tag)
}

func TestNotifierIgnoresUnknownKinds(t *testing.T) {
	db := newTestDB(t)
	bus := services.NewEventBus()
	worker := NewNotifierWorker(db, bus)

	require.NoError(t, worker.handle(services.SettlementEvent{Kind: "cache-warmup", UserID: "u1"}))

	var count int64
	require.NoError(t, db.Model(&models.UserNotification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNotifierConsumesPublishedEvents(t *testing.T) {
	db := newTestDB(t)
	bus := services.NewEventBus()
	worker := NewNotifierWorker(db, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Start(ctx)

	bus.Publish(services.SettlementEvent{Kind: services.EventBoxOpened, UserID: "u2"})

	require.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&models.UserNotification{}).
			Where("user_id = ?", "u2").Count(&count).Error; err != nil {
			return false
		}
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)
}
