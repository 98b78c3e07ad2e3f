package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"

	"modelflow/internal/models/db_models"
	"modelflow/internal/models/response_models"
	"modelflow/internal/repositories"
)

// EmbeddingClientInterface turns text into a vector. Separated from
// RelayClient because search embeddings and chat completions may use
// different providers.
type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

type openAIEmbeddingClient struct {
	client *openai.Client
}

func NewOpenAIEmbeddingClient(apiKey string) EmbeddingClientInterface {
	return &openAIEmbeddingClient{
		client: openai.NewClient(apiKey),
	}
}

func (c *openAIEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("embedding response empty")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

// EmbeddingServiceInterface indexes completed exchanges and answers
// transcript similarity search per user.
type EmbeddingServiceInterface interface {
	IndexMessage(ctx context.Context, accountID, chatID, messageID uuid.UUID, content string) error
	Search(ctx context.Context, accountID uuid.UUID, query string, limit int) ([]response_models.MessageSearchHit, error)
}

type EmbeddingService struct {
	embeddingRepo repositories.MessageEmbeddingRepository
	client        EmbeddingClientInterface
}

func NewEmbeddingService(embeddingRepo repositories.MessageEmbeddingRepository, client EmbeddingClientInterface) EmbeddingServiceInterface {
	return &EmbeddingService{
		embeddingRepo: embeddingRepo,
		client:        client,
	}
}

func (e *EmbeddingService) IndexMessage(ctx context.Context, accountID, chatID, messageID uuid.UUID, content string) error {
	vector, err := e.client.GetEmbedding(ctx, content)
	if err != nil {
		return err
	}

	return e.embeddingRepo.Insert(ctx, &db_models.MessageEmbedding{
		MessageID: messageID,
		AccountID: accountID,
		ChatID:    chatID,
		Content:   content,
		Embedding: vector,
	})
}

func (e *EmbeddingService) Search(ctx context.Context, accountID uuid.UUID, query string, limit int) ([]response_models.MessageSearchHit, error) {
	if limit <= 0 || limit > 50 {
		limit = 15
	}

	vector, err := e.client.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := e.embeddingRepo.SearchByVector(ctx, accountID, vector, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]response_models.MessageSearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, response_models.MessageSearchHit{
			ChatID:  row.ChatID,
			Content: row.Content,
		})
	}
	return hits, nil
}
