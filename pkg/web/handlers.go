package web

import (
	"context"
	"net/http"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/eventbus"
	"github.com/Matheusbritto77/WBot/pkg/events"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/registry"
	"github.com/Matheusbritto77/WBot/pkg/services"
	"github.com/Matheusbritto77/WBot/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// FlowRunner executes a flow for a chat.
type FlowRunner interface {
	ExecuteFlow(ctx context.Context, flow *models.AutomationFlow, jid, body, triggerNodeID string, initialVars map[string]any) *workflow.RunResult
}

type APIHandlers struct {
	flows     *services.Flow
	settings  *services.Settings
	stats     *services.Stats
	cronJobs  *services.CronJobs
	engine    FlowRunner
	publisher eventbus.EventPublisher
	validator *validator.Validate
	registry  *registry.Registry
}

func NewAPIHandlers(
	flows *services.Flow,
	settings *services.Settings,
	stats *services.Stats,
	cronJobs *services.CronJobs,
	engine FlowRunner,
	publisher eventbus.EventPublisher,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		flows:     flows,
		settings:  settings,
		stats:     stats,
		cronJobs:  cronJobs,
		engine:    engine,
		publisher: publisher,
		validator: validator,
		registry:  registry,
	}
}

// RegisterRoutes mounts every API route on router.
func (h *APIHandlers) RegisterRoutes(router fiber.Router) {
	f := router.Group("/flows")
	f.Get("/", h.GetFlows)
	f.Post("/", h.CreateFlow)
	f.Post("/validate", h.ValidateFlow)
	f.Get("/:id", h.GetFlow)
	f.Put("/:id", h.UpdateFlow)
	f.Delete("/:id", h.DeleteFlow)
	f.Post("/:id/toggle", h.ToggleFlow)
	f.Post("/:id/execute", h.ExecuteFlow)

	router.Get("/node-types", h.GetNodeTypes)

	s := router.Group("/settings")
	s.Get("/", h.GetSettings)
	s.Get("/:key", h.GetSetting)
	s.Put("/:key", h.UpdateSetting)

	b := router.Group("/contacts/blocked")
	b.Get("/", h.GetBlockedContacts)
	b.Post("/", h.BlockContact)
	b.Delete("/:jid", h.UnblockContact)

	router.Get("/stats", h.GetStats)

	j := router.Group("/cron-jobs")
	j.Get("/", h.GetCronJobs)
	j.Post("/", h.CreateCronJob)
	j.Delete("/:id", h.DeleteCronJob)
	j.Post("/:id/toggle", h.ToggleCronJob)

	router.Post("/messages/inbound", h.ReceiveMessage)
	router.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.flows.HealthCheck(c.Context())

	status := "unhealthy"
	message := "WBot API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "WBot API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetFlows(c fiber.Ctx) error {
	flows, err := h.flows.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(flows)
}

func (h *APIHandlers) GetFlow(c fiber.Ctx) error {
	flow, err := h.flows.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) CreateFlow(c fiber.Ctx) error {
	var req services.SaveFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.flows.Save(c.Context(), &req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateFlow(c fiber.Ctx) error {
	id := c.Params("id")

	_, err := h.flows.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	var req services.SaveFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	req.ID = id

	updated, err := h.flows.Save(c.Context(), &req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	err := h.flows.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleFlow(c fiber.Ctx) error {
	var req ToggleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	flow, err := h.flows.Toggle(c.Context(), c.Params("id"), *req.Enabled)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) ValidateFlow(c fiber.Ctx) error {
	var flow models.AutomationFlow
	if err := c.Bind().JSON(&flow); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.flows.Validate(&flow); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"valid": true})
}

// ExecuteFlow runs a stored flow from its first trigger, enabled or not.
func (h *APIHandlers) ExecuteFlow(c fiber.Ctx) error {
	var req ExecuteFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	flow, err := h.flows.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	jid := services.NormalizeJID(req.JID)
	result := h.engine.ExecuteFlow(c.Context(), flow, jid, req.Message, "", req.Variables)

	return c.JSON(NewExecuteFlowResponse(flow.ID, jid, result))
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	factories := h.registry.GetAvailableNodes()
	nodeTypes := make([]NodeTypeResponse, 0, len(factories))

	for _, factory := range factories {
		nodeTypes = append(nodeTypes, NodeTypeResponse{
			Type:        factory.Type(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return c.JSON(nodeTypes)
}

// ReceiveMessage is the gateway webhook. The message is queued on the event bus.
func (h *APIHandlers) ReceiveMessage(c fiber.Ctx) error {
	var msg models.InboundMessage
	if err := c.Bind().JSON(&msg); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(msg); err != nil {
		return badRequest(c, err.Error())
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	event := events.NewMessageReceived(msg)

	if err := h.publisher.Publish(c.Context(), msg.JID, event); err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": event.ID})
}
