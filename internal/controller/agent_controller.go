package controller

import (
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService service.IAgentService
	jwtSecret    string
	apiKey       string
}

func NewAgentController(agentService service.IAgentService, jwtSecret, apiKey string) IAgentController {
	return &agentController{
		agentService: agentService,
		jwtSecret:    jwtSecret,
		apiKey:       apiKey,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/agents")
	h.Use(serverutils.AuthMiddleware(c.jwtSecret, c.apiKey))
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *agentController) Create(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	var req dto.CreateAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.agentService.Create(ctx.Context(), auth.TenantId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create agent", res))
}

func (c *agentController) Show(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	res, err := c.agentService.Show(ctx.Context(), auth.TenantId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show agent", res))
}

func (c *agentController) List(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	res, err := c.agentService.List(ctx.Context(), auth.TenantId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all agents", res))
}

func (c *agentController) Delete(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	if err := c.agentService.Delete(ctx.Context(), auth.TenantId, ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete agent", nil))
}
