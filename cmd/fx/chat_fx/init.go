package chat_fx

import (
	"context"
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"modelflow/internal/repositories"
	"modelflow/internal/services"
	mem "modelflow/pkg/memcache"
)

var Module = fx.Provide(
	provideChatService,
	provideChatRepo,
	provideRelayClient,
	provideEmbeddingService,
	provideEmbeddingRepo,
	provideSendGuard)

func provideChatRepo(db *gorm.DB) repositories.ChatRepository {
	return repositories.NewChatRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.MessageEmbeddingRepository {
	return repositories.NewMessageEmbeddingRepository(db)
}

func provideSendGuard() mem.SendGuard {
	return mem.NewSendGuard()
}

// RELAY_PROVIDER selects the relay backend ("openai" or "gemini");
// RELAY_BASE_URL points the openai client at any compatible inference
// gateway.
func provideRelayClient() services.RelayClient {
	client, err := services.NewRelayClient(
		context.Background(),
		os.Getenv("RELAY_PROVIDER"),
		os.Getenv("RELAY_API_KEY"),
		os.Getenv("RELAY_BASE_URL"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize relay client: %v", err)
	}
	return client
}

func provideEmbeddingService(embeddingRepo repositories.MessageEmbeddingRepository) services.EmbeddingServiceInterface {
	apiKey := os.Getenv("EMBEDDING_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("RELAY_API_KEY")
	}
	if apiKey == "" {
		log.Println("No embedding API key configured, transcript search disabled")
		return nil
	}

	return services.NewEmbeddingService(embeddingRepo, services.NewOpenAIEmbeddingClient(apiKey))
}

func provideChatService(
	chatRepo repositories.ChatRepository,
	entitlement services.EntitlementServiceInterface,
	usage services.UsageServiceInterface,
	relay services.RelayClient,
	embeddings services.EmbeddingServiceInterface,
	sendGuard mem.SendGuard,
) services.ChatServiceInterface {
	return services.NewChatService(chatRepo, entitlement, usage, relay, embeddings, sendGuard)
}
