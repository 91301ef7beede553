package workers

import (
	"context"
	"fmt"
	"log"

	"nft-market-system/models"
	"nft-market-system/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotifierWorker fans settlement events out to notification rows. It runs
// outside the settlement transactions: a slow or failing notification never
// blocks or rolls back a sale.
type NotifierWorker struct {
	DB     *gorm.DB
	Events <-chan services.SettlementEvent
}

func NewNotifierWorker(db *gorm.DB, bus *services.EventBus) *NotifierWorker {
	return &NotifierWorker{
		DB:     db,
		Events: bus.Subscribe(64),
	}
}

// Start consumes events until the context is cancelled.
func (w *NotifierWorker) Start(ctx context.Context) {
	log.Println("Notifier worker running")
	for {
		select {
		case <-ctx.Done():
			log.Println("Notifier worker stopped")
			return
		case event := <-w.Events:
			if err := w.handle(event); err != nil {
				log.Printf("[Notifier] failed to handle %s event: %v", event.Kind, err)
			}
		}
	}
}

func (w *NotifierWorker) handle(event services.SettlementEvent) error {
	userTitle, managerTitle := "", ""
	switch event.Kind {
	case services.EventCardPurchased:
		userTitle = "NFT Purchase"
		managerTitle = "Card Purchase"
	case services.EventBoxPurchased:
		userTitle = "Box Purchase"
		managerTitle = "Box Purchase"
	case services.EventBoxOpened:
		userTitle = "Box Opened"
	case services.EventBoxGifted:
		userTitle = "Box gift"
	case services.EventAuctionCreated:
		managerTitle = "Auction Created"
	default:
		return nil
	}

	if userTitle != "" && event.UserID != "" {
		notification := models.UserNotification{
			ID:          uuid.NewString(),
			UserID:      event.UserID,
			Title:       userTitle,
			Description: fmt.Sprintf("%s settled just now.", userTitle),
		}
		if err := w.DB.Create(&notification).Error; err != nil {
			return err
		}
	}

	if managerTitle != "" {
		notification := models.ManagerNotification{
			ID:          uuid.NewString(),
			UserID:      event.UserID,
			Title:       managerTitle,
			Description: fmt.Sprintf("%s by user %s.", managerTitle, event.UserID),
			Tag:         event.Kind,
		}
		if err := w.DB.Create(&notification).Error; err != nil {
			return err
		}
	}
	return nil
}
