// Package ai wraps the chat completion API used by the wellness coach.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellness-server/internal/models"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const coachSystemPrompt = `You are a supportive wellness coach inside a habit-tracking app.
The app tracks eight wellness pillars: physical, mental, fiscal, social, spiritual, intellectual, occupational and environmental.

Personality:
- Warm, encouraging and concise. Celebrate progress before suggesting changes.
- Ground advice in the user's actual data when it is provided in the context block.

Guidelines:
- Keep answers short, two or three paragraphs at most.
- Suggest one concrete next action, not a list of ten.
- Never give medical, legal or financial advice; suggest a professional instead.
- If the user asks about something unrelated to wellness, gently steer back.`

// Config contains the settings for the coach client.
type Config struct {
	APIKey     string
	ModelName  string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the chat completion API on behalf of the coach service.
type Client struct {
	client     *openai.Client
	modelName  string
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
}

// New creates a coach client. The API is OpenAI-compatible; BaseURL selects
// the actual provider.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: API key is not set")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("ai: model name is not set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:     openai.NewClientWithConfig(config),
		modelName:  cfg.ModelName,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		logger:     logger.Named("AIClient"),
	}, nil
}

// GenerateCoachResponse sends the conversation history plus a context block
// describing the user's current progress and returns the assistant reply.
func (c *Client) GenerateCoachResponse(ctx context.Context, history []models.ChatMessage, userContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	systemPrompt := coachSystemPrompt
	if userContext != "" {
		systemPrompt = fmt.Sprintf("%s\n\nCurrent user data:\n%s", coachSystemPrompt, userContext)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	attempts := 0
	for attempts < c.maxRetries {
		attempts++

		req := openai.ChatCompletionRequest{
			Model:       c.modelName,
			Messages:    messages,
			Temperature: 0.7,
			MaxTokens:   500,
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			c.logger.Warn("Chat completion failed", zap.Int("attempt", attempts), zap.Error(err))
			if attempts >= c.maxRetries {
				return "", fmt.Errorf("coach completion failed after %d attempts: %w", attempts, err)
			}
			time.Sleep(time.Duration(attempts) * time.Second)
			continue
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			c.logger.Warn("Empty chat completion", zap.Int("attempt", attempts))
			if attempts >= c.maxRetries {
				return "", errors.New("ai: empty response after retries")
			}
			time.Sleep(time.Duration(attempts) * time.Second)
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", errors.New("ai: no response after retries")
}
