package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

const relaySystemPrompt = `You are ModelFlow Studio, a helpful and intelligent assistant.
Use **bold** for important terms, ## headings for main topics, bullet lists
for enumerations and numbered lists for steps. Be accurate, helpful, and
well-formatted.`

// ChatTurn is one prior exchange entry passed to the relay.
type ChatTurn struct {
	Role    string // "user" | "assistant"
	Content string
}

// RelayClient is the single-endpoint inference relay: message + history +
// model in, response text out. Implementations are opaque to the rest of the
// system; retries and model selection live in the orchestrator.
type RelayClient interface {
	Complete(ctx context.Context, modelID, message string, history []ChatTurn) (string, error)
}

// ---------- OpenAI-compatible router ----------

type openAIRelayClient struct {
	client *openai.Client
}

// NewOpenAIRelayClient talks to any OpenAI-compatible chat-completions
// endpoint (the hosted model router) via its base URL.
func NewOpenAIRelayClient(apiKey, baseURL string) RelayClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openAIRelayClient{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (c *openAIRelayClient) Complete(ctx context.Context, modelID, message string, history []ChatTurn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: relaySystemPrompt,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    modelID,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("relay completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("relay returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ---------- Gemini ----------

type geminiRelayClient struct {
	client *genai.Client
}

func NewGeminiRelayClient(ctx context.Context, apiKey string) (RelayClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiRelayClient{client: client}, nil
}

func (c *geminiRelayClient) Complete(ctx context.Context, modelID, message string, history []ChatTurn) (string, error) {
	model := c.client.GenerativeModel(modelID)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(relaySystemPrompt)},
	}

	session := model.StartChat()
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content")
	}

	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

// NewRelayClient picks the provider from config.
func NewRelayClient(ctx context.Context, provider, apiKey, baseURL string) (RelayClient, error) {
	switch strings.ToLower(provider) {
	case "", "openai":
		return NewOpenAIRelayClient(apiKey, baseURL), nil
	case "gemini":
		return NewGeminiRelayClient(ctx, apiKey)
	default:
		return nil, fmt.Errorf("unsupported relay provider: %s", provider)
	}
}
