package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services/jobs"
)

type JobHandler struct {
	Service *jobs.Service
}

func NewJobHandler(svc *jobs.Service) *JobHandler {
	return &JobHandler{Service: svc}
}

// Create posts a new job for the calling client. Jobs start in pending and
// need admin approval to go open.
func (h *JobHandler) Create(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}

	var in jobs.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	job, err := h.Service.Create(c.Context(), ac.AccountID, in)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	job, err := h.Service.Get(c.Context(), jobID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// Approve is the admin moderation step: pending -> open.
func (h *JobHandler) Approve(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	job, err := h.Service.Approve(c.Context(), jobID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     job.ID,
			"status": job.Status,
		},
	})
}

// Close withdraws the job and rejects its pending proposals.
func (h *JobHandler) Close(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	job, err := h.Service.Close(c.Context(), jobID, ac.AccountID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     job.ID,
			"status": job.Status,
		},
	})
}

// Reopen puts a closed job back into competition.
func (h *JobHandler) Reopen(c *fiber.Ctx) error {
	ac, err := middleware.Auth(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return err
	}

	job, err := h.Service.Reopen(c.Context(), jobID, ac.AccountID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     job.ID,
			"status": job.Status,
		},
	})
}
