package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/utils"
)

const narrativeSystemPrompt = "You write short, factual product narratives for agricultural marketplace listings. " +
	"Answer in plain prose without headings, at most three sentences."

var (
	_ interfaces.Source[models.NarrativeRequest, string] = (*ChatCompletion)(nil)
	_ interfaces.Availability                            = (*ChatCompletion)(nil)
)

// ChatCompletion generates narratives through an OpenAI-compatible chat completions API
type ChatCompletion struct {
	descriptor
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
	logger      *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// NewChatCompletion creates one narrative provider
func NewChatCompletion(cfg config.LLMProviderConfig, client *http.Client, logger *zap.Logger) *ChatCompletion {
	return &ChatCompletion{
		descriptor:  newDescriptor(cfg.SourceConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      client,
		logger:      logger,
	}
}

// Available reports whether an endpoint and an API key are configured
func (c *ChatCompletion) Available() bool {
	return c.url != "" && c.apiKey != ""
}

// Fetch asks the provider for a narrative
func (c *ChatCompletion) Fetch(ctx context.Context, req models.NarrativeRequest) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: narrativeSystemPrompt},
			{Role: "user", Content: BuildNarrativePrompt(req)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var response chatResponse
	err := utils.PostJSON(ctx, c.client, c.name, c.url+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + c.apiKey}, request, &response)
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", models.Malformed(c.name, fmt.Errorf("response has no choices"))
	}
	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		return "", models.Malformed(c.name, fmt.Errorf("empty completion"))
	}

	return text, nil
}

// BuildNarrativePrompt renders the user prompt for a narrative request
func BuildNarrativePrompt(req models.NarrativeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short narrative about %s", strings.TrimSpace(req.Crop))
	if region := strings.TrimSpace(req.Region); region != "" {
		fmt.Fprintf(&b, " grown in %s", region)
	}
	b.WriteString(".")
	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		fmt.Fprintf(&b, " %s", prompt)
	}
	return b.String()
}
