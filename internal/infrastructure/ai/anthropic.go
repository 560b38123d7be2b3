package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// DefaultAnthropicURL is the Messages API endpoint.
const DefaultAnthropicURL = "https://api.anthropic.com/v1/messages"

const anthropicVersion = "2023-06-01"

type anthropicProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	prompts    PromptBuilder
}

func newAnthropicProvider(apiKey string, opts Options, prompts PromptBuilder) ports.Provider {
	endpoint := opts.AnthropicURL
	if endpoint == "" {
		endpoint = DefaultAnthropicURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &anthropicProvider{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: client,
		prompts:    prompts,
	}
}

func (p *anthropicProvider) Name() string {
	return domain.ProviderAnthropic
}

func (p *anthropicProvider) BuildPrompt(text string) string {
	return p.prompts.Build(text)
}

func (p *anthropicProvider) GenerateShellCommand(ctx context.Context, text, model string) (string, error) {
	payload := anthropicRequest{
		Model:       model,
		MaxTokens:   domain.MaxResponseTokens,
		Temperature: domain.SamplingTemperature,
		System:      SystemInstruction,
		Messages: []anthropicMessage{
			{Role: "user", Content: p.BuildPrompt(text)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", anthropicError(resp)
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	command := cleanReply(decoded.FirstText())
	if command == "" {
		return "", domain.ErrEmptyCommand
	}
	return command, nil
}

func anthropicError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	remote := &domain.RemoteError{Provider: domain.ProviderAnthropic, StatusCode: resp.StatusCode}

	var decoded anthropicErrorResponse
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error.Message != "" {
		remote.Message = decoded.Error.Message
	} else {
		remote.Message = strings.TrimSpace(string(raw))
	}
	return remote
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// FirstText returns the first text block of the reply.
func (a anthropicResponse) FirstText() string {
	for _, block := range a.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
