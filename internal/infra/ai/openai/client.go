package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/pau-interconnect/cv-analyzer/internal/infra/ai/prompt"
)

const (
	// DefaultBaseURL is the hosted OpenAI-compatible completion endpoint.
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"
	// DefaultModel is the fixed model identifier used for fit analysis.
	DefaultModel = "meta/llama-3.1-70b-instruct"
)

type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a chat-completion client against an OpenAI-compatible
// endpoint. Empty baseURL/model fall back to the defaults above. An empty
// apiKey is accepted here; the remote endpoint rejects the first call as
// unauthorized instead.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = baseURL
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// AnalyzeFit sends the fit prompt and returns the first choice's message
// content verbatim. The response text is not parsed beyond that.
func (c *Client) AnalyzeFit(ctx context.Context, resumeText, roles string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt.FitAnalysis(resumeText, roles)},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
