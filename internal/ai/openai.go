package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fitai/fitai/internal/config"
)

// OpenAIGateway calls the chat completions endpoint. Without an API key every
// call fails with KindUnconfigured before any network I/O.
type OpenAIGateway struct {
	apiKey      string
	model       string
	endpoint    string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewOpenAIGateway(cfg *config.Config) *OpenAIGateway {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	baseURL := strings.TrimRight(cfg.OpenAIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	maxTokens := cfg.AIMaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &OpenAIGateway{
		apiKey:      strings.TrimSpace(cfg.OpenAIAPIKey),
		model:       model,
		endpoint:    baseURL + "/chat/completions",
		maxTokens:   maxTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (g *OpenAIGateway) Configured() bool {
	return g.apiKey != ""
}

func (g *OpenAIGateway) Model() string {
	return g.model
}

func (g *OpenAIGateway) Complete(ctx context.Context, req Request) (string, error) {
	if !g.Configured() {
		return "", unconfigured()
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body, err := json.Marshal(chatCompletionsRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", TransportFailure(fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", TransportFailure(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", TransportFailure(err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", TransportFailure(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", TransportFailure(fmt.Errorf("openai request failed with status %d", resp.StatusCode))
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", TransportFailure(fmt.Errorf("decode response envelope: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}

	return parsed.Choices[0].Message.Content, nil
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
