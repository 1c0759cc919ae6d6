package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Relay: RelayConfig{
			Port: 18890,
			Bind: "loopback",
		},
		LLM: LLMConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o-mini",
			TitleModel: "gpt-4o-mini",
			MaxTokens:  2048,
		},
		Connections: ConnectionsConfig{
			Store:        "sqlite",
			TTLHours:     24,
			SweepMinutes: 60,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
