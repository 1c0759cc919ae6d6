package config

// Config is the root configuration for the Waypost relay.
type Config struct {
	Relay       RelayConfig       `yaml:"relay,omitempty"`
	LLM         LLMConfig         `yaml:"llm,omitempty"`
	Connections ConnectionsConfig `yaml:"connections,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
}

// RelayConfig controls the relay HTTP/WebSocket server.
type RelayConfig struct {
	Port           int       `yaml:"port,omitempty"`
	Bind           string    `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string    `yaml:"customBindHost,omitempty"`
	Auth           RelayAuth `yaml:"auth,omitempty"`
	TLS            RelayTLS  `yaml:"tls,omitempty"`
	AllowedOrigins []string  `yaml:"allowedOrigins,omitempty"`
}

// RelayAuth configures connection authentication. An empty token means
// the relay accepts unauthenticated upgrades.
type RelayAuth struct {
	Token string `yaml:"token,omitempty"`
}

// RelayTLS configures TLS for the relay listener.
type RelayTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// LLMConfig points the relay at an OpenAI-compatible chat completion API.
type LLMConfig struct {
	BaseURL     string   `yaml:"baseUrl,omitempty"`
	APIKey      string   `yaml:"apiKey,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	TitleModel  string   `yaml:"titleModel,omitempty"`
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// ConnectionsConfig controls the connection record store.
type ConnectionsConfig struct {
	Store        string `yaml:"store,omitempty"` // "sqlite" | "memory"
	TTLHours     int    `yaml:"ttlHours,omitempty"`
	SweepMinutes int    `yaml:"sweepMinutes,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
