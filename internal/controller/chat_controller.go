package controller

import (
	"bufio"
	"time"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/service"
	"rag-chat-be/pkg/sse"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Completions(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	assembler   *sse.Assembler
	logger      logger.ILogger
	jwtSecret   string
	apiKey      string
}

func NewChatController(chatService service.IChatService, assembler *sse.Assembler, log logger.ILogger, jwtSecret, apiKey string) IChatController {
	return &chatController{
		chatService: chatService,
		assembler:   assembler,
		logger:      log,
		jwtSecret:   jwtSecret,
		apiKey:      apiKey,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/chat")
	h.Use(serverutils.AuthMiddleware(c.jwtSecret, c.apiKey))
	h.Post("/completions", c.Completions)
}

func (c *chatController) Completions(ctx *fiber.Ctx) error {
	auth := serverutils.GetAuthContext(ctx)

	var req dto.ChatCompletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	// The answer is fully computed before any byte is written; streaming only
	// changes delivery.
	result, err := c.chatService.Answer(ctx.Context(), auth.TenantId, auth.UserId, &req)
	if err != nil {
		return err
	}

	created := time.Now().Unix()

	if req.Stream {
		return c.streamResponse(ctx, result, created)
	}

	return ctx.JSON(dto.NewChatCompletionResponse(result, created))
}

func (c *chatController) streamResponse(ctx *fiber.Ctx, result *entity.AnswerResult, created int64) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("Connection", "keep-alive")

	frames := c.assembler.Frames(result, created)
	done := ctx.Context().Done()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for _, frame := range frames {
			select {
			case <-done:
				return
			default:
			}
			if _, err := w.WriteString(frame); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
