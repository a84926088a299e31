package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services/proposals"
)

type ProposalHandler struct {
	Service *proposals.Service
}

func NewProposalHandler(svc *proposals.Service) *ProposalHandler {
	return &ProposalHandler{Service: svc}
}

type ProposalRequest struct {
	CoverLetter string                     `json:"cover_letter"`
	Milestones  []proposals.MilestoneInput `json:"milestones"`
}

// Submit files the calling freelancer's proposal on a job.
func (h *ProposalHandler) Submit(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	var req ProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	proposal, err := h.Service.Submit(c.Context(), jobID, ac.AccountID, req.CoverLetter, req.Milestones)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     proposal.ID,
			"status": proposal.Status,
		},
	})
}

// Update rewrites the caller's pending proposal, milestones replaced
// wholesale.
func (h *ProposalHandler) Update(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	var req ProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	proposal, err := h.Service.Update(c.Context(), jobID, ac.AccountID, req.CoverLetter, req.Milestones)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     proposal.ID,
			"status": proposal.Status,
		},
	})
}

// Delete withdraws the caller's pending proposal.
func (h *ProposalHandler) Delete(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	if err := h.Service.Delete(c.Context(), jobID, ac.AccountID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Proposal deleted",
	})
}

// Accept picks the winning proposal and moves the job to in_progress.
func (h *ProposalHandler) Accept(c *fiber.Ctx) error {
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

	job, err := h.Service.Accept(c.Context(), jobID, freelancerID, ac.AccountID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"job_id":     job.ID,
			"job_status": job.Status,
		},
	})
}

// List returns a job's proposals for the owning client.
func (h *ProposalHandler) List(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	out, err := h.Service.ListForJob(c.Context(), jobID, ac.AccountID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}
