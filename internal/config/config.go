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
		Completion: CompletionConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
		},
		Server: ServerConfig{
			Port: 18490,
			Bind: "loopback",
		},
		Session: SessionConfig{
			Store:       "sqlite",
			MaxMessages: 40,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
