// Package metrics defines the relay's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StreamLinesSkipped counts SSE lines from the upstream LLM that
	// failed JSON parsing and were skipped. The relay continues past
	// them; this counter keeps the behavior observable.
	StreamLinesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypost_stream_lines_skipped_total",
		Help: "Upstream SSE lines that failed to parse and were skipped.",
	})

	// ToolCallsDropped counts aggregated tool calls discarded because
	// their accumulated arguments were not valid JSON.
	ToolCallsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypost_tool_calls_dropped_total",
		Help: "Tool calls dropped at finalization due to invalid JSON arguments.",
	})

	// PushesSent counts payloads pushed to clients, by message type.
	PushesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypost_pushes_sent_total",
		Help: "Payloads pushed to connected clients.",
	}, []string{"type"})

	// StaleConnectionsCleaned counts connection records removed after a
	// push found the connection gone.
	StaleConnectionsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypost_stale_connections_cleaned_total",
		Help: "Connection records deleted after a push to a gone connection.",
	})

	// MessagesHandled counts inbound envelopes, by action.
	MessagesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypost_messages_handled_total",
		Help: "Inbound WebSocket envelopes processed, by action.",
	}, []string{"action"})
)
