package relay

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypost/waypost/internal/llm"
)

func TestFallbackTitleShortMessageVerbatim(t *testing.T) {
	assert.Equal(t, "Plan my week", FallbackTitle("plan my week"))
	assert.Equal(t, "Fix the leaky faucet", FallbackTitle("fix the leaky faucet"))
}

func TestFallbackTitleLongMessageTruncates(t *testing.T) {
	got := FallbackTitle("Clean the entire house today and also water the plants")

	assert.Equal(t, "Clean the entire house today and also water the plants...", got)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 80)
	assert.Equal(t, "C", got[:1])
}

func TestFallbackTitleWordLimit(t *testing.T) {
	msg := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen"
	got := FallbackTitle(msg)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 80)
	// At most twelve words survive.
	words := strings.Fields(strings.TrimSuffix(got, "..."))
	assert.LessOrEqual(t, len(words), 12)
	assert.NotContains(t, got, "thirteen")
}

func TestFallbackTitleNeverSplitsWords(t *testing.T) {
	msg := "supercalifragilistic expialidocious " + strings.Repeat("antidisestablishmentarianism ", 5)
	got := FallbackTitle(msg)

	assert.LessOrEqual(t, len(got), 80)
	body := strings.TrimSuffix(got, "...")
	for _, w := range strings.Fields(strings.ToLower(body)) {
		assert.Contains(t, strings.ToLower(msg), w)
	}
}

func TestGenerateUsesModelResponse(t *testing.T) {
	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			assert.Equal(t, "title-model", req.Model)
			assert.Equal(t, 20, req.MaxTokens)
			return &llm.Response{Content: `"learning spanish"`}, nil
		},
	}

	g := NewTitleGenerator(client, "title-model", testLogger())
	got := g.Generate(context.Background(), "I want to learn Spanish")
	assert.Equal(t, "Learning spanish", got)
}

func TestGenerateFallsBackOnError(t *testing.T) {
	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return nil, errors.New("upstream down")
		},
	}

	g := NewTitleGenerator(client, "title-model", testLogger())
	got := g.Generate(context.Background(), "I want to learn Spanish")
	require.NotEmpty(t, got)
	assert.Equal(t, "I want to learn Spanish", got)
}

func TestGenerateFallsBackOnEmptyResponse(t *testing.T) {
	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: "  "}, nil
		},
	}

	g := NewTitleGenerator(client, "title-model", testLogger())
	got := g.Generate(context.Background(), "plan my garden")
	assert.Equal(t, "Plan my garden", got)
}
