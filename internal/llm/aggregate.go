package llm

import (
	"fmt"
	"sort"
	"time"
)

// ToolCallAggregator folds a stream of partial tool-call deltas into the
// final ordered list of complete tool calls.
//
// Providers stream function arguments token by token across many chunks
// but send the function name once (or repeat it identically), so names
// are set and arguments are concatenated in arrival order. Any
// reordering or dropped fragment would break JSON parseability of the
// arguments string.
type ToolCallAggregator struct {
	calls map[int]*ToolCall
}

// NewToolCallAggregator creates an empty aggregator.
func NewToolCallAggregator() *ToolCallAggregator {
	return &ToolCallAggregator{calls: make(map[int]*ToolCall)}
}

// Add applies one delta. The first delta at an index creates the entry;
// later deltas at the same index mutate it.
func (a *ToolCallAggregator) Add(d ToolCallDelta) {
	tc, ok := a.calls[d.Index]
	if !ok {
		tc = &ToolCall{
			ID:   d.ID,
			Type: d.Type,
		}
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("call_%d_%d", time.Now().UnixMilli(), d.Index)
		}
		if tc.Type == "" {
			tc.Type = "function"
		}
		a.calls[d.Index] = tc
	}

	if d.Function.Name != "" {
		tc.Function.Name = d.Function.Name
	}
	if d.Function.Arguments != "" {
		tc.Function.Arguments += d.Function.Arguments
	}
}

// Len returns how many tool calls have been started.
func (a *ToolCallAggregator) Len() int {
	return len(a.calls)
}

// Finalize returns the accumulated tool calls in index order. Map
// iteration order is not trusted; indexes are sorted ascending.
func (a *ToolCallAggregator) Finalize() []ToolCall {
	indexes := make([]int, 0, len(a.calls))
	for i := range a.calls {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]ToolCall, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, *a.calls[i])
	}
	return out
}
