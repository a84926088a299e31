package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/services/withdrawals"
)

type WithdrawalHandler struct {
	Service *withdrawals.Service
}

func NewWithdrawalHandler(svc *withdrawals.Service) *WithdrawalHandler {
	return &WithdrawalHandler{Service: svc}
}

// Create requests a payout; the balance is debited immediately.
func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}

	var in withdrawals.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	w, err := h.Service.Create(c.Context(), ac.AccountID, in)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     w.ID,
			"status": w.Status,
		},
	})
}

// Complete marks a pending withdrawal as paid out (admin).
func (h *WithdrawalHandler) Complete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	w, err := h.Service.Complete(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     w.ID,
			"status": w.Status,
		},
	})
}

// Delete cancels a pending withdrawal and refunds the balance.
func (h *WithdrawalHandler) Delete(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	isAdmin := ac.Role == string(models.RoleAdmin)
	if err := h.Service.Delete(c.Context(), id, ac.AccountID, isAdmin); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Withdrawal deleted and refunded",
	})
}

// List shows the admin review queue, or the caller's own requests.
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}

	var out []models.Withdrawal
	if ac.Role == string(models.RoleAdmin) {
		out, err = h.Service.ListAll(c.Context())
	} else {
		out, err = h.Service.ListForFreelancer(c.Context(), ac.AccountID)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}
