package relay

import (
	"github.com/waypost/waypost/internal/action"
	"github.com/waypost/waypost/internal/llm"
)

// Client-to-server actions. The set is closed; anything else is answered
// with an error push.
const (
	ActionSendMessage    = "sendMessage"
	ActionStreamResponse = "streamResponse"
)

// Envelope is a client-to-server WebSocket message.
type Envelope struct {
	Action         string        `json:"action"`
	Message        string        `json:"message,omitempty"`
	ConversationID string        `json:"conversationId,omitempty"`
	MessageHistory []llm.Message `json:"messageHistory,omitempty"`

	// AITier is accepted from the client but never affects model
	// selection; the configured model is always used.
	AITier string `json:"aiTier,omitempty"`

	IsFirstMessage       *bool             `json:"isFirstMessage,omitempty"`
	UserKnowledgeContext *KnowledgeContext `json:"userKnowledgeContext,omitempty"`
}

// KnowledgeContext carries optional user-uploaded document context.
type KnowledgeContext struct {
	DocumentContext string `json:"documentContext,omitempty"`
}

// FirstMessage reports whether this envelope starts a conversation.
// When the field is absent it defaults to true for an empty history.
func (e *Envelope) FirstMessage() bool {
	if e.IsFirstMessage != nil {
		return *e.IsFirstMessage
	}
	return len(e.MessageHistory) == 0
}

// DocumentContext returns the knowledge context string, or "" when absent.
func (e *Envelope) DocumentContext() string {
	if e.UserKnowledgeContext == nil {
		return ""
	}
	return e.UserKnowledgeContext.DocumentContext
}

// Outbound message types.
const (
	TypeStatus   = "status"
	TypeChunk    = "chunk"
	TypeComplete = "complete"
	TypeError    = "error"
)

// Status values.
const (
	StatusProcessing   = "processing"
	StatusAcknowledged = "acknowledged"
)

// Outbound is a server-to-client push. The Type field discriminates;
// unused fields are omitted per type.
type Outbound struct {
	Type           string          `json:"type"`
	Status         string          `json:"status,omitempty"`
	Content        string          `json:"content,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	Done           *bool           `json:"done,omitempty"`
	Actions        []action.Action `json:"actions,omitempty"`
	Title          string          `json:"title,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// NewStatus builds a status push.
func NewStatus(status, conversationID string) Outbound {
	return Outbound{Type: TypeStatus, Status: status, ConversationID: conversationID}
}

// NewChunk builds an incremental text push with done:false.
func NewChunk(content, conversationID string) Outbound {
	done := false
	return Outbound{Type: TypeChunk, Content: content, ConversationID: conversationID, Done: &done}
}

// NewComplete builds the final message for a turn. It is the single
// source of truth for the client; earlier chunks are a progressive
// rendering optimization the client reconciles against it.
func NewComplete(content, conversationID string, actions []action.Action, title string) Outbound {
	done := true
	return Outbound{
		Type:           TypeComplete,
		Content:        content,
		ConversationID: conversationID,
		Done:           &done,
		Actions:        actions,
		Title:          title,
	}
}

// NewError builds an error push. The client treats it as terminating the
// in-flight turn for that conversation id.
func NewError(errMsg, conversationID string) Outbound {
	return Outbound{Type: TypeError, Error: errMsg, ConversationID: conversationID}
}
