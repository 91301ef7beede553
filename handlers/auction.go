package handlers

import (
	"time"

	"nft-market-system/middleware"
	"nft-market-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// SetupAuctionRoutes wires the auction endpoints. Input validation beyond
// shape happens in the gateway; handlers only parse and delegate.
func SetupAuctionRoutes(app *fiber.App, svc *services.AuctionService) {
	manager := app.Group("/s/admin/auctions", middleware.RequireManager())

	manager.Post("/batch", func(c *fiber.Ctx) error {
		var req struct {
			CardTypeID     string          `json:"card_type_id"`
			Start          time.Time       `json:"start"`
			End            time.Time       `json:"end"`
			ImmediatePrice decimal.Decimal `json:"immediate_price"`
			Type           string          `json:"type"`
			InitialNumber  int             `json:"initial_number"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		auctions, err := svc.AddAuctionBatch(services.BatchAuctionInput{
			CardTypeID:     req.CardTypeID,
			Start:          req.Start,
			End:            req.End,
			ImmediatePrice: req.ImmediatePrice,
			Type:           req.Type,
			InitialNumber:  req.InitialNumber,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(auctions)
	})

	manager.Patch("/:id", func(c *fiber.Ctx) error {
		var req struct {
			Start          *time.Time       `json:"start"`
			End            *time.Time       `json:"end"`
			ImmediatePrice *decimal.Decimal `json:"immediate_price"`
			Type           *string          `json:"type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		err := svc.EditAuction(c.Params("id"), services.AuctionPatch{
			Start:          req.Start,
			End:            req.End,
			ImmediatePrice: req.ImmediatePrice,
			Type:           req.Type,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Successful"})
	})

	manager.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteAuction(c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Successful"})
	})

	user := app.Group("/s/auctions")

	user.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			AssignedCardID string          `json:"assigned_card_id"`
			Start          time.Time       `json:"start"`
			End            time.Time       `json:"end"`
			BasePrice      decimal.Decimal `json:"base_price"`
			ImmediatePrice decimal.Decimal `json:"immediate_price"`
			BookingPrice   decimal.Decimal `json:"booking_price"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		auction, err := svc.AddUserAuction(userID, req.AssignedCardID,
			req.Start, req.End, req.BasePrice, req.ImmediatePrice, req.BookingPrice)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(auction)
	})

	user.Post("/purchase", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			CardID  string `json:"card_id"`
			Type    string `json:"type"` // MINT | ACCOUNT | CREDIT
			Address string `json:"address"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		result, err := svc.PurchaseCard(req.CardID, req.Type, req.Address, userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": result})
	})
}
