package bootstrap

import (
	"log"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/controller"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/implementation"
	"rag-chat-be/internal/service"
	"rag-chat-be/pkg/llm/factory"
	"rag-chat-be/pkg/sse"

	pktNats "rag-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const conversationTopic = "conversation.saved"

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	KnowledgeController    controller.IKnowledgeController
	AgentController        controller.IAgentController
	ConversationController controller.IConversationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	embeddingProvider, err := factory.NewEmbeddingProvider(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	llmProvider, err := factory.NewLLMProvider(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 4. Repositories
	agentRepo := implementation.NewAgentRepository(db)
	spaceRepo := implementation.NewKnowledgeSpaceRepository(db)
	chunkRepo := implementation.NewKnowledgeChunkRepository(db)
	conversationRepo := implementation.NewConversationRepository(db)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, conversationTopic)

	chatService := service.NewChatService(
		agentRepo,
		spaceRepo,
		chunkRepo,
		embeddingProvider,
		llmProvider,
		publisherService,
		sysLogger,
		cfg,
	)
	knowledgeService := service.NewKnowledgeService(
		spaceRepo,
		chunkRepo,
		embeddingProvider,
		sysLogger,
		cfg,
	)
	agentService := service.NewAgentService(agentRepo)
	conversationService := service.NewConversationService(conversationRepo)
	consumerService := service.NewConsumerService(
		pubSub,
		conversationTopic,
		conversationRepo,
		natsPub,
		sysLogger,
	)

	// 6. Controllers
	assembler := sse.NewAssembler(cfg.Stream.ChunkSize)
	chatController := controller.NewChatController(chatService, assembler, sysLogger, cfg.App.JwtSecret, cfg.App.ApiKey)
	knowledgeController := controller.NewKnowledgeController(knowledgeService, cfg.App.JwtSecret, cfg.App.ApiKey)
	agentController := controller.NewAgentController(agentService, cfg.App.JwtSecret, cfg.App.ApiKey)
	conversationController := controller.NewConversationController(conversationService, cfg.App.JwtSecret, cfg.App.ApiKey)

	return &Container{
		ChatController:         chatController,
		KnowledgeController:    knowledgeController,
		AgentController:        agentController,
		ConversationController: conversationController,
		ConsumerService:        consumerService,
		Logger:                 sysLogger,
	}
}
