package web

import (
	"net/url"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/gofiber/fiber/v3"
)

func (h *APIHandlers) GetSettings(c fiber.Ctx) error {
	settings, err := h.settings.All(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(settings)
}

func (h *APIHandlers) GetSetting(c fiber.Ctx) error {
	key := c.Params("key")

	value, err := h.settings.Get(c.Context(), key)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"key": key, "value": value})
}

func (h *APIHandlers) UpdateSetting(c fiber.Ctx) error {
	var req SettingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	key := c.Params("key")

	if err := h.settings.Set(c.Context(), key, *req.Value); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"key": key, "value": *req.Value})
}

func (h *APIHandlers) GetBlockedContacts(c fiber.Ctx) error {
	contacts, err := h.settings.BlockedContacts(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	if contacts == nil {
		contacts = []string{}
	}

	return c.JSON(contacts)
}

func (h *APIHandlers) BlockContact(c fiber.Ctx) error {
	var req ContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.settings.BlockContact(c.Context(), req.JID); err != nil {
		return handleServiceError(c, err)
	}

	return h.GetBlockedContacts(c)
}

func (h *APIHandlers) UnblockContact(c fiber.Ctx) error {
	jid, err := url.PathUnescape(c.Params("jid"))
	if err != nil {
		return badRequest(c, "Invalid contact")
	}

	if err := h.settings.UnblockContact(c.Context(), jid); err != nil {
		return handleServiceError(c, err)
	}

	return h.GetBlockedContacts(c)
}

func (h *APIHandlers) GetStats(c fiber.Ctx) error {
	stats, err := h.stats.Get(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(stats)
}

func (h *APIHandlers) GetCronJobs(c fiber.Ctx) error {
	jobs, err := h.cronJobs.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	if jobs == nil {
		jobs = []*models.CronJob{}
	}

	return c.JSON(jobs)
}

func (h *APIHandlers) CreateCronJob(c fiber.Ctx) error {
	var req CreateCronJobRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	job, err := h.cronJobs.Add(c.Context(), &models.CronJob{
		ID:        req.ID,
		Name:      req.Name,
		Schedule:  req.Schedule,
		Prompt:    req.Prompt,
		TargetJID: req.TargetJID,
		FlowID:    req.FlowID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *APIHandlers) DeleteCronJob(c fiber.Ctx) error {
	if err := h.cronJobs.Remove(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleCronJob(c fiber.Ctx) error {
	var req ToggleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	id := c.Params("id")

	if err := h.cronJobs.Toggle(c.Context(), id, *req.Enabled); err != nil {
		return handleServiceError(c, err)
	}

	job, err := h.cronJobs.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(job)
}
