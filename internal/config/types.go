package config

// Config is the root configuration for Greenbasket.
type Config struct {
	Completion CompletionConfig `yaml:"completion,omitempty"`
	Server     ServerConfig     `yaml:"server,omitempty"`
	Database   DatabaseConfig   `yaml:"database,omitempty"`
	Session    SessionConfig    `yaml:"session,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// CompletionConfig points at the external completion service.
type CompletionConfig struct {
	BaseURL     string   `yaml:"baseUrl,omitempty"`
	APIKey      string   `yaml:"apiKey,omitempty"` // supports ${ENV_VAR} references
	Model       string   `yaml:"model,omitempty"`
	Fallbacks   []string `yaml:"fallbacks,omitempty"`
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// ServerConfig controls the HTTP/WebSocket server.
type ServerConfig struct {
	Port int        `yaml:"port,omitempty"`
	Bind string     `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	Host string     `yaml:"host,omitempty"` // used when bind: custom
	Auth ServerAuth `yaml:"auth,omitempty"`
}

// ServerAuth configures API authentication.
type ServerAuth struct {
	Token string `yaml:"token,omitempty"` // supports ${ENV_VAR} references
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"` // empty means <base>/data/greenbasket.db
}

// SessionConfig controls conversation history.
type SessionConfig struct {
	Store       string `yaml:"store,omitempty"` // "sqlite" | "memory"
	MaxMessages int    `yaml:"maxMessages,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File  string `yaml:"file,omitempty"`
}
