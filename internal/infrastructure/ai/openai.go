package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

type openAIProvider struct {
	client  *openai.Client
	prompts PromptBuilder
}

func newOpenAIProvider(apiKey string, opts Options, prompts PromptBuilder) ports.Provider {
	cfg := openai.DefaultConfig(apiKey)
	if opts.OpenAIBaseURL != "" {
		cfg.BaseURL = opts.OpenAIBaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	return &openAIProvider{
		client:  openai.NewClientWithConfig(cfg),
		prompts: prompts,
	}
}

func (p *openAIProvider) Name() string {
	return domain.ProviderOpenAI
}

func (p *openAIProvider) BuildPrompt(text string) string {
	return p.prompts.Build(text)
}

func (p *openAIProvider) GenerateShellCommand(ctx context.Context, text, model string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: p.BuildPrompt(text)},
		},
		Temperature: domain.SamplingTemperature,
	})
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyCommand
	}
	command := cleanReply(resp.Choices[0].Message.Content)
	if command == "" {
		return "", domain.ErrEmptyCommand
	}
	return command, nil
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.RemoteError{Provider: domain.ProviderOpenAI, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.RemoteError{Provider: domain.ProviderOpenAI, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return fmt.Errorf("openai: %w", err)
}
