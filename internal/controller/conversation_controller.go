package controller

import (
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
	jwtSecret           string
	apiKey              string
}

func NewConversationController(conversationService service.IConversationService, jwtSecret, apiKey string) IConversationController {
	return &conversationController{
		conversationService: conversationService,
		jwtSecret:           jwtSecret,
		apiKey:              apiKey,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/conversations")
	h.Use(serverutils.AuthMiddleware(c.jwtSecret, c.apiKey))
	h.Get("", c.List)
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)
	limit := ctx.QueryInt("limit", 0)

	res, err := c.conversationService.List(ctx.Context(), auth.TenantId, auth.UserId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation history", res))
}
