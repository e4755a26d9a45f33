package anthropic

import (
	"fmt"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// Anthropic Messages API wire types.

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// transformRequest builds the Messages API payload. max_tokens is a
// required field for this API, so a default is applied here.
func transformRequest(cfg providers.Config, prompt string, params providers.InvokeParams) *messagesRequest {
	maxTokens := params.MaxTokens
	if maxTokens == 0 {
		maxTokens = cfg.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &messagesRequest{
		Model:     cfg.Model,
		MaxTokens: maxTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		Temperature: params.Temperature,
	}
}

// pingRequest builds the minimal one-token probe payload.
func pingRequest(cfg providers.Config) *messagesRequest {
	return &messagesRequest{
		Model:     cfg.Model,
		MaxTokens: 1,
		Messages: []message{
			{Role: "user", Content: "ping"},
		},
	}
}

// transformResponse normalizes an Anthropic response into the shared Result.
// Text is concatenated from the text content blocks.
func transformResponse(resp *messagesResponse, id providers.Identity) (*providers.Result, error) {
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no content blocks in response")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &providers.Result{
		Content:      text,
		TokensIn:     resp.Usage.InputTokens,
		TokensOut:    resp.Usage.OutputTokens,
		FinishReason: normalizeStopReason(resp.StopReason),
		Provider:     id,
	}, nil
}

// normalizeStopReason maps Anthropic stop reasons to shared values.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	default:
		return reason
	}
}
