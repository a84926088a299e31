package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/workhive/workhive-backend/internal/gateway"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services/escrow"
)

type MilestoneHandler struct {
	Ledger *escrow.Ledger
}

func NewMilestoneHandler(ledger *escrow.Ledger) *MilestoneHandler {
	return &MilestoneHandler{Ledger: ledger}
}

// Complete is the client's pay action for one milestone.
func (h *MilestoneHandler) Complete(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}
	freelancerID, err := paramUUID(c, "freelancerId")
	if err != nil {
		return err
	}
	order, err := c.ParamsInt("order")
	if err != nil || order <= 0 {
		return fail(c, fiber.StatusBadRequest, "Invalid order")
	}

	var instrument gateway.Instrument
	if err := c.BodyParser(&instrument); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	payment, err := h.Ledger.CompleteMilestone(c.Context(), jobID, freelancerID, order, ac.AccountID, instrument)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"payment_id": payment.ID,
			"amount":     payment.Amount,
		},
	})
}

// List returns the milestones of one proposal. Freelancers see their own
// set; the client passes freelancer_id to pick which proposal to inspect.
func (h *MilestoneHandler) List(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	freelancerID := ac.AccountID
	if q := c.Query("freelancer_id"); q != "" {
		freelancerID, err = uuid.Parse(q)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid freelancer_id")
		}
	}

	out, err := h.Ledger.ListMilestones(c.Context(), jobID, freelancerID, ac.AccountID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}
