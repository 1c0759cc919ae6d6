package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorReconstructsSplitArguments(t *testing.T) {
	agg := NewToolCallAggregator()

	// Arguments split mid-token across many deltas, name sent once.
	agg.Add(ToolCallDelta{Index: 0, ID: "call_abc", Type: "function", Function: FunctionDelta{Name: "createGoal"}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: `{"ti`}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: `tle":"Learn`}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: ` Spanish","dom`}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: `ain":"learning"}`}})

	calls := agg.Finalize()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_abc", calls[0].ID)
	assert.Equal(t, "createGoal", calls[0].Function.Name)

	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].Function.Arguments), &args))
	assert.Equal(t, "Learn Spanish", args["title"])
	assert.Equal(t, "learning", args["domain"])
}

func TestAggregatorArbitraryChunkBoundaries(t *testing.T) {
	original := `{"title":"Run a marathon","description":"Train for 16 weeks","domain":"health"}`

	// Split the arguments string at every possible boundary width.
	for width := 1; width <= 7; width++ {
		agg := NewToolCallAggregator()
		agg.Add(ToolCallDelta{Index: 0, ID: "c1", Function: FunctionDelta{Name: "createGoal"}})
		for i := 0; i < len(original); i += width {
			end := min(i+width, len(original))
			agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: original[i:end]}})
		}

		calls := agg.Finalize()
		require.Len(t, calls, 1)
		assert.Equal(t, original, calls[0].Function.Arguments)
	}
}

func TestAggregatorNameSetNotAppended(t *testing.T) {
	agg := NewToolCallAggregator()

	// Some providers repeat the full name; it must not double up.
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Name: "createTask"}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Name: "createTask"}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: "{}"}})

	calls := agg.Finalize()
	require.Len(t, calls, 1)
	assert.Equal(t, "createTask", calls[0].Function.Name)
}

func TestAggregatorEmptyNameDeltaKeepsName(t *testing.T) {
	agg := NewToolCallAggregator()

	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Name: "createTodo"}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: `{"title":"x"}`}})

	calls := agg.Finalize()
	require.Len(t, calls, 1)
	assert.Equal(t, "createTodo", calls[0].Function.Name)
}

func TestAggregatorIndexOrder(t *testing.T) {
	agg := NewToolCallAggregator()

	// Deltas interleaved across indexes, started out of order.
	agg.Add(ToolCallDelta{Index: 2, ID: "c", Function: FunctionDelta{Name: "createTodo"}})
	agg.Add(ToolCallDelta{Index: 0, ID: "a", Function: FunctionDelta{Name: "createGoal"}})
	agg.Add(ToolCallDelta{Index: 1, ID: "b", Function: FunctionDelta{Name: "createTask"}})
	agg.Add(ToolCallDelta{Index: 0, Function: FunctionDelta{Arguments: "{}"}})
	agg.Add(ToolCallDelta{Index: 2, Function: FunctionDelta{Arguments: "{}"}})
	agg.Add(ToolCallDelta{Index: 1, Function: FunctionDelta{Arguments: "{}"}})

	calls := agg.Finalize()
	require.Len(t, calls, 3)
	assert.Equal(t, "a", calls[0].ID)
	assert.Equal(t, "b", calls[1].ID)
	assert.Equal(t, "c", calls[2].ID)
}

func TestAggregatorSynthesizesMissingID(t *testing.T) {
	agg := NewToolCallAggregator()
	agg.Add(ToolCallDelta{Index: 3, Function: FunctionDelta{Name: "createTodo"}})

	calls := agg.Finalize()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].ID, "call_"))
	assert.True(t, strings.HasSuffix(calls[0].ID, "_3"))
	assert.Equal(t, "function", calls[0].Type)
}

func TestAggregatorEmpty(t *testing.T) {
	agg := NewToolCallAggregator()
	assert.Equal(t, 0, agg.Len())
	assert.Empty(t, agg.Finalize())
}
