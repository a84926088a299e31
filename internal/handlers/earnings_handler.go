package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/models"
)

type EarningsHandler struct {
	DB *gorm.DB
}

func NewEarningsHandler(db *gorm.DB) *EarningsHandler {
	return &EarningsHandler{DB: db}
}

// GetEarnings returns the freelancer's balance plus ledger totals and
// recent history.
func (h *EarningsHandler) GetEarnings(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}

	var profile models.FreelancerProfile
	if err := h.DB.Where("user_id = ?", ac.AccountID).First(&profile).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Freelancer profile not found")
	}

	var rows []struct {
		Type  models.WalletTrxType
		Total int64
	}
	if err := h.DB.Model(&models.WalletTransaction{}).
		Where("freelancer_id = ?", ac.AccountID).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&rows).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch earnings totals")
	}

	totals := map[models.WalletTrxType]int64{}
	for _, r := range rows {
		totals[r.Type] = r.Total
	}

	var history []models.WalletTransaction
	if err := h.DB.Where("freelancer_id = ?", ac.AccountID).
		Order("created_at DESC").Limit(50).Find(&history).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch earnings history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"balance":         profile.Balance,
			"total_earned":    totals[models.WalletTrxCredit],
			"total_withdrawn": totals[models.WalletTrxDebit] - totals[models.WalletTrxRefund],
			"history":         history,
		},
	})
}
