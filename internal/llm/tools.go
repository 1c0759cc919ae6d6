package llm

// domainEnum lists the life domains the assistant can tag items with.
var domainEnum = []string{
	"health", "career", "relationships", "finances",
	"learning", "creativity", "community", "recreation",
}

// AssistantTools returns the fixed tool schema sent with every
// conversation turn. The set is closed; the mobile client only knows how
// to import these eight action types.
func AssistantTools() []Tool {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	domain := map[string]any{
		"type":        "string",
		"enum":        domainEnum,
		"description": "Life domain this item belongs to",
	}
	stringList := func(desc string) map[string]any {
		return map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": desc,
		}
	}

	return []Tool{
		{Type: "function", Function: FunctionDef{
			Name:        "createGoal",
			Description: "Create a long-term goal for the user",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       str("Goal title"),
					"description": str("What achieving this goal looks like"),
					"domain":      domain,
				},
				"required": []string{"title"},
			},
		}},
		{Type: "function", Function: FunctionDef{
			Name:        "createProject",
			Description: "Create a project under a goal, optionally with initial tasks",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       str("Project title"),
					"description": str("Project description"),
					"goalTitle":   str("Title of the goal this project belongs to"),
					"domain":      domain,
					"tasks":       stringList("Initial task titles"),
				},
				"required": []string{"title"},
			},
		}},
		{Type: "function", Function: FunctionDef{
			Name:        "createTask",
			Description: "Create a single task in an existing project",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":        str("Task title"),
					"description":  str("Task description"),
					"projectTitle": str("Title of the project this task belongs to"),
					"goalTitle":    str("Title of the goal the project belongs to"),
					"status":       map[string]any{"type": "string", "enum": []string{"todo", "doing", "done"}},
				},
				"required": []string{"title"},
			},
		}},
		{Type: "function", Function: FunctionDef{
			Name:        "createTimeBlock",
			Description: "Schedule a time block on the user's calendar",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":     str("Time block title"),
					"startTime": str("Start time, ISO 8601"),
					"endTime":   str("End time, ISO 8601"),
					"location":  str("Optional location"),
					"notes":     str("Optional notes"),
					"domain":    domain,
				},
				"required": []string{"title", "startTime", "endTime"},
			},
		}},
		{Type: "function", Function: FunctionDef{
			Name:        "createTodo",
			Description: "Add a single item to today's todo list",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": str("Todo text"),
				},
				"required": []string{"title"},
			},
		}},
		{Type: "function", Function: FunctionDef{
			Name:        "createTodoGroup",
			Description: "Add a grouped checklist to today's todo list",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": str("Group title"),
					"items": stringList("Checklist item titles"),
				},
				"required": []string{"title", "items"},
			},
		}},
		{Type: "function", Function: FunctionDef{
			Name:        "updateLifeDirection",
			Description: "Replace the user's life direction statement",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"direction": str("The new life direction statement"),
				},
				"required": []string{"direction"},
			},
		}},
		{Type: "function", Function: FunctionDef{
			Name:        "updateStrategicDirection",
			Description: "Replace the user's strategic direction for the current season",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"direction": str("The new strategic direction statement"),
				},
				"required": []string{"direction"},
			},
		}},
	}
}
