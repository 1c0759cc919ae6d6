package relay

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/waypost/waypost/internal/llm"
	"github.com/waypost/waypost/internal/logging"
)

const (
	titleMaxTokens = 20
	titleTimeout   = 10 * time.Second

	// Fallback shaping: messages at or under shortTitleLimit are used
	// verbatim; longer ones are cut to the first titleWordLimit words
	// and at most titleCharLimit characters including the ellipsis.
	shortTitleLimit = 40
	titleWordLimit  = 12
	titleCharLimit  = 80
)

var titleTemperature = 0.3

// TitleGenerator produces a short conversation title from the first user
// message. Generation never fails: any upstream problem falls back to a
// deterministic local heuristic.
type TitleGenerator struct {
	client llm.Client
	model  string
	log    *logging.Logger
}

// NewTitleGenerator creates a title generator using the given model.
func NewTitleGenerator(client llm.Client, model string, log *logging.Logger) *TitleGenerator {
	return &TitleGenerator{
		client: client,
		model:  model,
		log:    log.Sub("title"),
	}
}

// Generate returns a non-empty title for the message.
func (g *TitleGenerator) Generate(ctx context.Context, message string) string {
	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	temp := titleTemperature
	resp, err := g.client.Complete(ctx, llm.Request{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "Write a title of at most six words for a conversation that starts with the user's message. Respond with the title only."},
			{Role: llm.RoleUser, Content: message},
		},
		MaxTokens:   titleMaxTokens,
		Temperature: &temp,
		Stop:        []string{".", "!", "?"},
	})
	if err != nil {
		g.log.Debug().Err(err).Msg("title generation failed, using fallback")
		return FallbackTitle(message)
	}

	title := strings.Trim(strings.TrimSpace(resp.Content), `"`)
	if title == "" {
		return FallbackTitle(message)
	}
	return capitalize(title)
}

// FallbackTitle derives a title locally. Short messages are used
// verbatim; longer ones are truncated at a word boundary with a
// trailing ellipsis. Always deterministic, always non-empty for
// non-empty input.
func FallbackTitle(message string) string {
	message = strings.TrimSpace(message)
	if len(message) <= shortTitleLimit {
		return capitalize(message)
	}

	words := strings.Fields(message)
	if len(words) > titleWordLimit {
		words = words[:titleWordLimit]
	}

	title := strings.Join(words, " ")
	for len(title)+3 > titleCharLimit && len(words) > 1 {
		words = words[:len(words)-1]
		title = strings.Join(words, " ")
	}
	return capitalize(title + "...")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
