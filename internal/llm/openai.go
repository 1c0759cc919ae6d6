package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/waypost/waypost/internal/logging"
	"github.com/waypost/waypost/internal/metrics"
)

// OpenAIClient is a direct HTTP client for any OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logging.Logger
}

// NewOpenAIClient creates a client for the given base URL (e.g.
// "https://api.openai.com/v1").
func NewOpenAIClient(baseURL, apiKey string, log *logging.Logger) *OpenAIClient {
	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
		log:     log.Sub("llm"),
	}
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Complete sends a non-streaming chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(c.buildRequestBody(req, false))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in response")
	}

	choice := result.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
		Model:        result.Model,
	}, nil
}

// ChatStream sends a streaming chat completion request. Events are
// delivered in upstream arrival order; the channel closes after "done"
// or "error".
func (c *OpenAIClient) ChatStream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	eventChan := make(chan StreamEvent)

	payload, err := json.Marshal(c.buildRequestBody(req, true))
	if err != nil {
		close(eventChan)
		return eventChan, fmt.Errorf("failed to marshal request: %w", err)
	}

	go c.streamRequest(ctx, eventChan, payload)
	return eventChan, nil
}

func (c *OpenAIClient) post(ctx context.Context, payload []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/chat/completions", strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *OpenAIClient) buildRequestBody(req Request, stream bool) map[string]any {
	body := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
		"stream":   stream,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}
	if len(req.Stop) > 0 {
		body["stop"] = req.Stop
	}
	if len(req.Tools) > 0 {
		body["tools"] = req.Tools
		choice := req.ToolChoice
		if choice == "" {
			choice = "auto"
		}
		body["tool_choice"] = choice
	}
	return body
}

// emit delivers one event unless the context is cancelled. A false
// return means the consumer is gone and the producer must stop.
func (c *OpenAIClient) emit(ctx context.Context, eventChan chan StreamEvent, ev StreamEvent) bool {
	select {
	case eventChan <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *OpenAIClient) streamRequest(ctx context.Context, eventChan chan StreamEvent, payload []byte) {
	defer close(eventChan)

	resp, err := c.post(ctx, payload)
	if err != nil {
		c.emit(ctx, eventChan, StreamEvent{Type: "error", Error: err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.emit(ctx, eventChan, StreamEvent{Type: "error", Error: fmt.Sprintf("API error (%d): %s", resp.StatusCode, string(body))})
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		// CRLF framing is legal for SSE; strip the trailing CR before
		// matching.
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		dataStr := strings.TrimPrefix(line, "data: ")
		if dataStr == "[DONE]" {
			break
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(dataStr), &chunk); err != nil {
			// A single malformed line is skipped, not fatal. The counter
			// keeps this visible.
			metrics.StreamLinesSkipped.Inc()
			c.log.Debug().Err(err).Msg("skipping unparseable stream line")
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			if !c.emit(ctx, eventChan, StreamEvent{Type: "delta", Content: delta.Content}) {
				return
			}
		}
		if len(delta.ToolCalls) > 0 {
			if !c.emit(ctx, eventChan, StreamEvent{Type: "tool_delta", ToolDeltas: delta.ToolCalls}) {
				return
			}
		}
	}

	if err := scanner.Err(); err != nil {
		c.emit(ctx, eventChan, StreamEvent{Type: "error", Error: fmt.Sprintf("stream read: %v", err)})
		return
	}

	c.emit(ctx, eventChan, StreamEvent{Type: "done"})
}

// Wire structures for the chat-completions API.

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
}

type chatCompletionChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

type chatCompletionChunk struct {
	Choices []chatChunkChoice `json:"choices"`
}

type chatChunkChoice struct {
	Delta        chatChunkDelta `json:"delta"`
	FinishReason string         `json:"finish_reason"`
}

type chatChunkDelta struct {
	Content   string          `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}
