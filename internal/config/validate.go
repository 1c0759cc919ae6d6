package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Relay.Port < 0 || cfg.Relay.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "relay.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Relay.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Relay.Bind != "" && !slices.Contains(validBinds, cfg.Relay.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "relay.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Relay.Bind),
		})
	}

	if cfg.Relay.TLS.Enabled {
		if cfg.Relay.TLS.CertPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "relay.tls.certPath",
				Message: "required when TLS is enabled",
			})
		}
		if cfg.Relay.TLS.KeyPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "relay.tls.keyPath",
				Message: "required when TLS is enabled",
			})
		}
	}

	if cfg.LLM.BaseURL == "" {
		issues = append(issues, ValidationIssue{
			Path:    "llm.baseUrl",
			Message: "base URL is required",
		})
	}
	if cfg.LLM.Model == "" {
		issues = append(issues, ValidationIssue{
			Path:    "llm.model",
			Message: "model is required",
		})
	}
	if cfg.LLM.MaxTokens < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "llm.maxTokens",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.LLM.MaxTokens),
		})
	}

	validStores := []string{"sqlite", "memory"}
	if cfg.Connections.Store != "" && !slices.Contains(validStores, cfg.Connections.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "connections.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.Connections.Store),
		})
	}
	if cfg.Connections.TTLHours < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "connections.ttlHours",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Connections.TTLHours),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}
