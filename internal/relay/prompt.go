package relay

import (
	"github.com/waypost/waypost/internal/llm"
)

// fullSystemPrompt opens a conversation. Follow-up turns use the
// abbreviated prompt instead, which roughly halves system token cost.
const fullSystemPrompt = `You are the Waypost assistant, a planning coach inside a goals, projects and tasks app.

You help the user clarify what they want, then turn it into concrete structure using your tools:
- createGoal for long-term outcomes, createProject for the work under a goal, createTask for single steps.
- createTimeBlock to put committed time on the calendar.
- createTodo and createTodoGroup for today's loose items.
- updateLifeDirection and updateStrategicDirection when the user articulates where they are heading.

Guidelines:
- Be warm and concise. Ask at most one clarifying question at a time.
- When the user states a goal or plan, create the matching items instead of describing what you would create.
- Tag items with the life domain that fits best. Prefer a few well-formed items over many vague ones.
- Never invent commitments the user did not express.`

// abbreviatedSystemPrompt is used on follow-up turns, where the
// conversation itself carries the context.
const abbreviatedSystemPrompt = `You are the Waypost assistant, a planning coach inside a goals, projects and tasks app. Use your tools to create goals, projects, tasks, time blocks and todos when the user asks for structure. Be warm and concise.`

// documentContextPreamble frames injected user knowledge.
const documentContextPreamble = `The user has shared the following personal context. Prefer it over asking clarifying questions when it already answers something:

`

// BuildPrompt composes the ordered message array for one turn: system
// prompt, history in order, optional knowledge context, then the new
// user message. Knowledge context is injected only on the first message
// of a conversation and only when non-empty.
func BuildPrompt(env *Envelope) []llm.Message {
	first := env.FirstMessage()

	system := abbreviatedSystemPrompt
	if first {
		system = fullSystemPrompt
	}

	msgs := make([]llm.Message, 0, len(env.MessageHistory)+3)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	msgs = append(msgs, env.MessageHistory...)

	if first {
		if doc := env.DocumentContext(); doc != "" {
			msgs = append(msgs, llm.Message{
				Role:    llm.RoleSystem,
				Content: documentContextPreamble + doc,
			})
		}
	}

	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: env.Message})
	return msgs
}
