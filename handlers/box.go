package handlers

import (
	"nft-market-system/middleware"
	"nft-market-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// SetupBoxRoutes wires the box endpoints.
func SetupBoxRoutes(app *fiber.App, svc *services.BoxService) {
	manager := app.Group("/s/admin/boxes", middleware.RequireManager())

	manager.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			Name          string          `json:"name"`
			CardTypeID    string          `json:"card_type_id"`
			InitialNumber int             `json:"initial_number"`
			Price         decimal.Decimal `json:"price"`
			AssetID       string          `json:"asset_id"`
			Level         int             `json:"level"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		boxes, err := svc.AddBox(services.BoxListingInput{
			Name:          req.Name,
			CardTypeID:    req.CardTypeID,
			InitialNumber: req.InitialNumber,
			Price:         req.Price,
			AssetID:       req.AssetID,
			Level:         req.Level,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(boxes)
	})

	manager.Patch("/:id", func(c *fiber.Ctx) error {
		var req struct {
			Name    *string          `json:"name"`
			Price   *decimal.Decimal `json:"price"`
			AssetID *string          `json:"asset_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := svc.EditBox(c.Params("id"), services.BoxPatch{
			Name:    req.Name,
			Price:   req.Price,
			AssetID: req.AssetID,
		}); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Successful"})
	})

	manager.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteBox(c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Successful"})
	})

	manager.Post("/gift", func(c *fiber.Ctx) error {
		var req struct {
			UserID     string `json:"user_id"`
			CardTypeID string `json:"card_type_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := svc.GiftBoxToUser(req.UserID, req.CardTypeID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Successful"})
	})

	settings := app.Group("/s/admin/box-settings", middleware.RequireManager())

	settings.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			CardTypeID string `json:"card_type_id"`
			Name       string `json:"name"`
			Type       string `json:"type"`
			Amounts    string `json:"amounts"`
			Level      int    `json:"level"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		setting, err := svc.AddBoxSetting(services.BoxSettingInput{
			CardTypeID: req.CardTypeID,
			Name:       req.Name,
			Type:       req.Type,
			Amounts:    req.Amounts,
			Level:      req.Level,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(setting)
	})

	settings.Patch("/:id", func(c *fiber.Ctx) error {
		var req struct {
			Name    *string `json:"name"`
			Type    *string `json:"type"`
			Amounts *string `json:"amounts"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := svc.EditBoxSetting(c.Params("id"), services.BoxSettingPatch{
			Name:    req.Name,
			Type:    req.Type,
			Amounts: req.Amounts,
		}); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Successful"})
	})

	settings.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteBoxSetting(c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Successful"})
	})

	user := app.Group("/s/boxes")

	user.Post("/purchase", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			BoxAuctionID string `json:"box_auction_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		box, err := svc.PurchaseBox(req.BoxAuctionID, userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(box)
	})

	user.Post("/open-gift", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			BoxAuctionID string `json:"box_auction_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		box, err := svc.OpenGiftBox(req.BoxAuctionID, userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(box)
	})

	user.Post("/confirm-card", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			CardID  string `json:"card_id"`
			Address string `json:"address"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		result, err := svc.ConfirmBoxCard(req.CardID, req.Address, userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": result})
	})
}
