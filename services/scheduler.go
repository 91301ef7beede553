package services

import (
	"log"
	"time"

	"nft-market-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartExpirySweep starts a background job that cancels user lots whose
// window has passed. The window fields are advisory everywhere else; nothing
// but this sweep ever finishes a lot because of time.
func (s *AuctionService) StartExpirySweep(interval time.Duration) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Sweep] scheduler init failed: %v", err)
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			var expired []models.Auction
			now := time.Now()
			err := s.DB.Where("status = ? AND user_id IS NOT NULL AND \"end\" < ?",
				models.AuctionStatusActive, now).
				Find(&expired).Error
			if err != nil {
				log.Printf("[Sweep] DB error: %v", err)
				return
			}

			for _, auction := range expired {
				if err := s.DeleteAuction(auction.ID); err != nil {
					log.Printf("[Sweep] failed to expire auction %s: %v", auction.ID, err)
					continue
				}
				log.Printf("[Sweep] expired auction %s released", auction.ID)
			}
		}),
	)
	if err != nil {
		log.Printf("[Sweep] failed to register sweep job: %v", err)
	}
}
