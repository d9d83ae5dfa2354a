package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smarttrainer/smarttrainer/internal/llm/prompts"
	"github.com/smarttrainer/smarttrainer/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

const (
	temperature = 0.7
	maxTokens   = 2000
)

// generation is the JSON object the model is asked to return.
type generation struct {
	Questions *[]model.GeneratedQuestion `json:"questions"`
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client. An empty baseURL uses the OpenAI API.
func New(baseURL, apiKey, modelName string) (*Client, error) {
	if err := prompts.Load(prompts.Templates); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

// Ping checks that the endpoint is reachable and accepts the API key.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Generate asks the model for up to req.Count multiple-choice questions about
// req.Content. Items that fail validation are dropped.
func (c *Client) Generate(ctx context.Context, req model.GenerationRequest) ([]model.GeneratedQuestion, error) {
	prompt, err := prompts.BuildGeneratePrompt(req.Language, prompts.GenerateData{
		Content: req.Content,
		Count:   req.Count,
		Topic:   req.CategoryHint,
	})
	if err != nil {
		return nil, &model.GenerationError{Op: "build prompt", Err: err}
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, &model.GenerationError{Op: "LLM API call", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &model.GenerationError{Op: "LLM API call", Err: errors.New("LLM returned no choices")}
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	questions, err := parseGeneration(raw)
	if err != nil {
		return nil, &model.GenerationError{Op: "parse LLM response", Err: err}
	}
	if req.Count > 0 && len(questions) > req.Count {
		questions = questions[:req.Count]
	}
	return questions, nil
}

func parseGeneration(raw string) ([]model.GeneratedQuestion, error) {
	var g generation
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("%w (raw: %s)", err, raw)
	}
	if g.Questions == nil {
		return nil, errors.New("response has no questions array")
	}

	var kept []model.GeneratedQuestion
	for i, q := range *g.Questions {
		q = normalize(q)
		if err := q.AsNewQuestion(nil).Validate(); err != nil {
			slog.Warn("dropping invalid generated question", "index", i, "error", err)
			continue
		}
		kept = append(kept, q)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("none of the %d generated questions were valid", len(*g.Questions))
	}
	return kept, nil
}

func normalize(q model.GeneratedQuestion) model.GeneratedQuestion {
	q.Question = strings.TrimSpace(q.Question)
	for i, o := range q.Options {
		q.Options[i] = strings.TrimSpace(o)
	}
	q.Explanation = strings.TrimSpace(q.Explanation)
	d := model.Difficulty(strings.ToLower(strings.TrimSpace(string(q.Difficulty))))
	if !d.Valid() {
		d = model.DifficultyMedium
	}
	q.Difficulty = d
	return q
}
