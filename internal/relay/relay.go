// Package relay implements the WebSocket chat relay: it accepts client
// envelopes, forwards conversations to a streaming LLM, pushes text
// chunks back as they arrive, reconstructs streamed tool calls, and
// emits a final message with client-consumable actions.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/waypost/waypost/internal/action"
	"github.com/waypost/waypost/internal/llm"
	"github.com/waypost/waypost/internal/logging"
	"github.com/waypost/waypost/internal/metrics"
)

// RelayConfig fixes the model and sampling settings for every turn.
type RelayConfig struct {
	Model       string
	TitleModel  string
	MaxTokens   int
	Temperature *float64
}

// Relay owns per-message processing for one gateway. It is stateless
// across messages; the connection store and registry are the only shared
// state, and both are keyed by connection id.
type Relay struct {
	cfg    RelayConfig
	client llm.Client
	pusher *Pusher
	tools  []llm.Tool
	titles *TitleGenerator
	log    *logging.Logger
}

// NewRelay creates a relay over the given LLM client and pusher.
func NewRelay(cfg RelayConfig, client llm.Client, pusher *Pusher, log *logging.Logger) *Relay {
	return &Relay{
		cfg:    cfg,
		client: client,
		pusher: pusher,
		tools:  llm.AssistantTools(),
		titles: NewTitleGenerator(client, cfg.TitleModel, log),
		log:    log.Sub("relay"),
	}
}

// HandleMessage processes one raw inbound WebSocket message. Errors are
// reported to the client with a best-effort error push and never
// propagate to the read loop.
func (r *Relay) HandleMessage(ctx context.Context, connID string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		metrics.MessagesHandled.WithLabelValues("invalid").Inc()
		r.log.Warn().Err(err).Str("connId", connID).Msg("unparseable inbound message")
		r.pushErrorBestEffort(connID, "invalid message: body is not valid JSON", "")
		return
	}

	switch env.Action {
	case ActionSendMessage:
		metrics.MessagesHandled.WithLabelValues(ActionSendMessage).Inc()
		if err := r.processSendMessage(ctx, connID, &env); err != nil {
			r.log.Error().Err(err).
				Str("connId", connID).
				Str("conversationId", env.ConversationID).
				Msg("message processing failed")
			r.pushErrorBestEffort(connID, err.Error(), env.ConversationID)
		}

	case ActionStreamResponse:
		// Protocol no-op, answered for keep-alive purposes.
		metrics.MessagesHandled.WithLabelValues(ActionStreamResponse).Inc()
		if err := r.pusher.Send(connID, NewStatus(StatusAcknowledged, env.ConversationID)); err != nil {
			r.log.Warn().Err(err).Str("connId", connID).Msg("acknowledge push failed")
		}

	default:
		metrics.MessagesHandled.WithLabelValues("unknown").Inc()
		r.log.Warn().Str("action", env.Action).Str("connId", connID).Msg("unknown action")
		r.pushErrorBestEffort(connID, fmt.Sprintf("unknown action: %q", env.Action), env.ConversationID)
	}
}

// processSendMessage runs the full turn: status push, prompt, streaming
// completion with live chunk forwarding, tool-call finalization, title,
// final complete push. Work is strictly sequential; every chunk push is
// awaited before the next upstream event is consumed, so client
// delivery order equals upstream emission order.
func (r *Relay) processSendMessage(ctx context.Context, connID string, env *Envelope) error {
	convID := env.ConversationID

	// Returning before the stream is drained (a failed push, most
	// commonly a client gone mid-stream) must also release the producer
	// goroutine behind the event channel.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if env.AITier != "" {
		// Accepted for compatibility; the configured model always wins.
		r.log.Debug().Str("aiTier", env.AITier).Msg("aiTier ignored for model selection")
	}

	if err := r.pusher.Send(connID, NewStatus(StatusProcessing, convID)); err != nil {
		return err
	}

	req := llm.Request{
		Model:       r.cfg.Model,
		Messages:    BuildPrompt(env),
		Tools:       r.tools,
		ToolChoice:  "auto",
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}

	ch, err := r.client.ChatStream(ctx, req)
	if err != nil {
		return fmt.Errorf("starting completion stream: %w", err)
	}

	agg := llm.NewToolCallAggregator()
	var content strings.Builder

	for evt := range ch {
		switch evt.Type {
		case "delta":
			content.WriteString(evt.Content)
			if err := r.pusher.Send(connID, NewChunk(evt.Content, convID)); err != nil {
				return fmt.Errorf("pushing chunk: %w", err)
			}
		case "tool_delta":
			for _, d := range evt.ToolDeltas {
				agg.Add(d)
			}
		case "error":
			return fmt.Errorf("completion stream: %s", evt.Error)
		case "done":
			// Channel closes after this.
		}
	}

	actions := r.finalizeActions(agg)

	var title string
	if env.FirstMessage() {
		title = r.titles.Generate(ctx, env.Message)
	}

	if err := r.pusher.Send(connID, NewComplete(content.String(), convID, actions, title)); err != nil {
		return fmt.Errorf("pushing complete: %w", err)
	}

	r.log.Info().
		Str("connId", connID).
		Str("conversationId", convID).
		Int("contentLen", content.Len()).
		Int("actions", len(actions)).
		Bool("firstMessage", env.FirstMessage()).
		Msg("turn complete")
	return nil
}

// finalizeActions converts aggregated tool calls into actions. A call
// whose accumulated arguments are not valid JSON is dropped alone; the
// rest of the response is unaffected.
func (r *Relay) finalizeActions(agg *llm.ToolCallAggregator) []action.Action {
	calls := agg.Finalize()
	if len(calls) == 0 {
		return nil
	}

	actions := make([]action.Action, 0, len(calls))
	for _, tc := range calls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			metrics.ToolCallsDropped.Inc()
			r.log.Warn().Err(err).
				Str("callId", tc.ID).
				Str("function", tc.Function.Name).
				Msg("dropping tool call with invalid arguments")
			continue
		}
		actions = append(actions, action.Map(tc.Function.Name, args))
	}
	if len(actions) == 0 {
		return nil
	}
	return actions
}

// pushErrorBestEffort reports a failure to the client, swallowing any
// secondary push failure.
func (r *Relay) pushErrorBestEffort(connID, message, conversationID string) {
	if err := r.pusher.Send(connID, NewError(message, conversationID)); err != nil {
		r.log.Debug().Err(err).Str("connId", connID).Msg("error push failed")
	}
}
