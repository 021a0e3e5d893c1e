package controller

import (
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
	jwtSecret        string
	apiKey           string
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService, jwtSecret, apiKey string) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
		jwtSecret:        jwtSecret,
		apiKey:           apiKey,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/knowledge")
	h.Use(serverutils.AuthMiddleware(c.jwtSecret, c.apiKey))
	h.Post("", c.Ingest)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	var req dto.IngestKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Ingest(ctx.Context(), auth.TenantId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest knowledge", res))
}

func (c *knowledgeController) List(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	res, err := c.knowledgeService.List(ctx.Context(), auth.TenantId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all knowledge spaces", res))
}

func (c *knowledgeController) Delete(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	res, err := c.knowledgeService.Delete(ctx.Context(), auth.TenantId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete knowledge space", res))
}
