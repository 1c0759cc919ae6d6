// Package llm defines the LLM client interface and the streaming wire types
// shared by the relay.
//
// The relay only needs two calls: a streaming chat completion for the main
// conversation turn, and a small non-streaming completion for title
// generation. Providers speak the OpenAI chat-completions dialect.
package llm

import (
	"context"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FunctionDef describes one callable function in a tool schema.
type FunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Tool is one entry in the tool schema sent with a completion request.
type Tool struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// Request is the input to a Complete or ChatStream call.
type Request struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	ToolChoice  string    `json:"toolChoice,omitempty"`
	MaxTokens   int       `json:"maxTokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

// FunctionCall is the name and accumulated JSON arguments of one call.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a complete function invocation emitted by the LLM.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionDelta is a fragment of a function call inside a stream chunk.
// Name arrives whole (set once); Arguments arrive as fragments that must
// be concatenated in order.
type FunctionDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolCallDelta is one partial tool call from a stream chunk, addressed
// by its position in the response's tool-call array.
type ToolCallDelta struct {
	Index    int           `json:"index"`
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type,omitempty"`
	Function FunctionDelta `json:"function"`
}

// StreamEvent is a chunk from a streaming completion.
type StreamEvent struct {
	Type       string          `json:"type"`                 // "delta", "tool_delta", "done", "error"
	Content    string          `json:"content,omitempty"`    // text delta (type="delta")
	ToolDeltas []ToolCallDelta `json:"toolDeltas,omitempty"` // partial tool calls (type="tool_delta")
	Error      string          `json:"error,omitempty"`      // error message (type="error")
}

// Response is the result of a non-streaming completion.
type Response struct {
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"toolCalls,omitempty"`
	FinishReason string     `json:"finishReason,omitempty"`
	Model        string     `json:"model,omitempty"`
}

// Client is the interface the relay depends on.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ChatStream sends a request and returns a channel of streaming events.
	// The channel is closed after a "done" or "error" event.
	ChatStream(ctx context.Context, req Request) (<-chan StreamEvent, error)

	// Name returns the provider name.
	Name() string
}
