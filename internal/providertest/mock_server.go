// Package providertest contains shared test helpers for provider adapters
// and the race executor.
package providertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a mock HTTP server for testing provider adapters.
type MockServer struct {
	server       *httptest.Server
	responses    map[string]MockResponse
	requestCount int
	mu           sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
	Headers    map[string]string
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific endpoint.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requestCount
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.requestCount++
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.StatusCode)
	_, _ = w.Write([]byte(response.Body))
}

// ChatCompletionBody builds an OpenAI-style chat completion response body.
func ChatCompletionBody(content, model string) string {
	body := map[string]any{
		"id":    "chatcmpl-test",
		"model": model,
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// MessagesBody builds an Anthropic-style messages response body.
func MessagesBody(content, model string) string {
	body := map[string]any{
		"id":    "msg-test",
		"model": model,
		"content": []map[string]string{
			{"type": "text", "text": content},
		},
		"stop_reason": "end_turn",
		"usage": map[string]int{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// ErrorBody builds a provider-style error payload.
func ErrorBody(message string) string {
	return fmt.Sprintf(`{"error":{"message":%q,"type":"api_error"}}`, message)
}
