// Package action translates completed tool calls into the action objects
// the mobile client's import logic consumes.
package action

import (
	"github.com/google/uuid"
)

// Action is one client-consumable instruction derived from a tool call.
type Action struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Map reshapes parsed tool-call arguments into the exact field names and
// types the client expects. It is total: unknown function names pass
// their arguments through unchanged, and missing or mistyped fields
// become zero values rather than errors. Callers rely on malformed
// JSON having been filtered out upstream.
func Map(functionName string, args map[string]any) Action {
	switch functionName {
	case "createGoal":
		meta := MetaForDomain(str(args, "domain"))
		return Action{Type: "createGoal", Data: map[string]any{
			"title":       str(args, "title"),
			"description": str(args, "description"),
			"domain":      str(args, "domain"),
			"color":       meta.Color,
			"icon":        meta.Icon,
		}}

	case "createProject":
		meta := MetaForDomain(str(args, "domain"))
		tasks := make([]map[string]any, 0)
		for _, title := range strList(args, "tasks") {
			tasks = append(tasks, map[string]any{
				"id":        uuid.New().String(),
				"title":     title,
				"status":    "todo",
				"completed": false,
			})
		}
		return Action{Type: "createProject", Data: map[string]any{
			"title":       str(args, "title"),
			"description": str(args, "description"),
			"goalTitle":   str(args, "goalTitle"),
			"domain":      str(args, "domain"),
			"color":       meta.Color,
			"tasks":       tasks,
		}}

	case "createTask":
		status := str(args, "status")
		if status == "" {
			status = "todo"
		}
		return Action{Type: "createTask", Data: map[string]any{
			"title":        str(args, "title"),
			"description":  str(args, "description"),
			"projectTitle": str(args, "projectTitle"),
			"goalTitle":    str(args, "goalTitle"),
			"status":       status,
		}}

	case "createTimeBlock":
		meta := MetaForDomain(str(args, "domain"))
		return Action{Type: "createTimeBlock", Data: map[string]any{
			"title":              str(args, "title"),
			"startTime":          str(args, "startTime"),
			"endTime":            str(args, "endTime"),
			"location":           str(args, "location"),
			"notes":              str(args, "notes"),
			"domain":             str(args, "domain"),
			"color":              meta.Color,
			"userTimezoneOffset": num(args, "userTimezoneOffset"),
		}}

	case "createTodo":
		return Action{Type: "createTodo", Data: map[string]any{
			"title":   str(args, "title"),
			"tab":     "today",
			"isGroup": false,
		}}

	case "createTodoGroup":
		items := make([]map[string]any, 0)
		for _, title := range strList(args, "items") {
			items = append(items, map[string]any{
				"id":        uuid.New().String(),
				"title":     title,
				"completed": false,
			})
		}
		return Action{Type: "createTodoGroup", Data: map[string]any{
			"title":   str(args, "title"),
			"tab":     "today",
			"items":   items,
			"isGroup": true,
		}}

	case "updateLifeDirection":
		return Action{Type: "updateLifeDirection", Data: str(args, "direction")}

	case "updateStrategicDirection":
		return Action{Type: "updateStrategicDirection", Data: str(args, "direction")}

	default:
		return Action{Type: functionName, Data: args}
	}
}

func str(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func num(args map[string]any, key string) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return 0
}

func strList(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
