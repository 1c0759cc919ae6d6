package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypost/waypost/internal/llm"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildPromptFirstMessageUsesFullSystemPrompt(t *testing.T) {
	env := &Envelope{
		Action:         ActionSendMessage,
		Message:        "I want to learn Spanish",
		IsFirstMessage: boolPtr(true),
	}

	msgs := BuildPrompt(env)
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, fullSystemPrompt, msgs[0].Content)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t, "I want to learn Spanish", msgs[1].Content)
}

func TestBuildPromptFollowUpUsesAbbreviatedPrompt(t *testing.T) {
	env := &Envelope{
		Action:  ActionSendMessage,
		Message: "Make it a project",
		MessageHistory: []llm.Message{
			{Role: llm.RoleUser, Content: "I want to learn Spanish"},
			{Role: llm.RoleAssistant, Content: "Great, let's set that up."},
		},
	}

	msgs := BuildPrompt(env)
	require.Len(t, msgs, 4)
	assert.Equal(t, abbreviatedSystemPrompt, msgs[0].Content)
	assert.Equal(t, "I want to learn Spanish", msgs[1].Content)
	assert.Equal(t, "Great, let's set that up.", msgs[2].Content)
	assert.Equal(t, "Make it a project", msgs[3].Content)
}

func TestBuildPromptFirstMessageDefaultsFromHistory(t *testing.T) {
	// Absent isFirstMessage with empty history is a first message.
	env := &Envelope{Message: "hello"}
	assert.True(t, env.FirstMessage())
	assert.Equal(t, fullSystemPrompt, BuildPrompt(env)[0].Content)

	// Absent isFirstMessage with history is a follow-up.
	env = &Envelope{
		Message:        "hello again",
		MessageHistory: []llm.Message{{Role: llm.RoleUser, Content: "hello"}},
	}
	assert.False(t, env.FirstMessage())
	assert.Equal(t, abbreviatedSystemPrompt, BuildPrompt(env)[0].Content)

	// An explicit flag wins over the history heuristic.
	env = &Envelope{
		Message:        "restarting",
		MessageHistory: []llm.Message{{Role: llm.RoleUser, Content: "old"}},
		IsFirstMessage: boolPtr(true),
	}
	assert.True(t, env.FirstMessage())
}

func TestBuildPromptInjectsDocumentContextOnFirstMessageOnly(t *testing.T) {
	env := &Envelope{
		Message:              "plan my career",
		IsFirstMessage:       boolPtr(true),
		UserKnowledgeContext: &KnowledgeContext{DocumentContext: "I work as a nurse."},
	}

	msgs := BuildPrompt(env)
	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleSystem, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "I work as a nurse.")
	assert.Equal(t, llm.RoleUser, msgs[2].Role)

	// Same context on a follow-up turn is not injected.
	env.IsFirstMessage = boolPtr(false)
	msgs = BuildPrompt(env)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.NotContains(t, m.Content, "nurse")
	}
}

func TestBuildPromptSkipsEmptyDocumentContext(t *testing.T) {
	env := &Envelope{
		Message:              "plan my career",
		IsFirstMessage:       boolPtr(true),
		UserKnowledgeContext: &KnowledgeContext{DocumentContext: ""},
	}
	assert.Len(t, BuildPrompt(env), 2)

	env.UserKnowledgeContext = nil
	assert.Len(t, BuildPrompt(env), 2)
}
