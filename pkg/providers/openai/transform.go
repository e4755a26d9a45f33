package openai

import (
	"fmt"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// OpenAI Chat Completions wire types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// transformRequest builds the provider-specific payload for one invocation.
func transformRequest(cfg providers.Config, prompt string, params providers.InvokeParams) *chatRequest {
	maxTokens := params.MaxTokens
	if maxTokens == 0 {
		maxTokens = cfg.MaxTokens
	}

	return &chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: params.Temperature,
	}
}

// pingRequest builds the minimal one-token probe payload.
func pingRequest(cfg providers.Config) *chatRequest {
	return &chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: "ping"},
		},
		MaxTokens: 1,
	}
}

// transformResponse normalizes an OpenAI response into the shared Result.
func transformResponse(resp *chatResponse, id providers.Identity) (*providers.Result, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	return &providers.Result{
		Content:      choice.Message.Content,
		TokensIn:     resp.Usage.PromptTokens,
		TokensOut:    resp.Usage.CompletionTokens,
		FinishReason: normalizeFinishReason(choice.FinishReason),
		Provider:     id,
	}, nil
}

// normalizeFinishReason maps OpenAI finish reasons to shared values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop":
		return providers.FinishReasonStop
	case "length":
		return providers.FinishReasonLength
	default:
		return reason
	}
}
