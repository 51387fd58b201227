package config

import (
	"fmt"
	"slices"
	"strings"
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

	if cfg.Completion.BaseURL == "" {
		issues = append(issues, ValidationIssue{
			Path:    "completion.baseUrl",
			Message: "base URL is required",
		})
	} else if !strings.HasPrefix(cfg.Completion.BaseURL, "http://") && !strings.HasPrefix(cfg.Completion.BaseURL, "https://") {
		issues = append(issues, ValidationIssue{
			Path:    "completion.baseUrl",
			Message: fmt.Sprintf("must be an http(s) URL, got %q", cfg.Completion.BaseURL),
		})
	}

	if cfg.Completion.Model == "" {
		issues = append(issues, ValidationIssue{
			Path:    "completion.model",
			Message: "model is required",
		})
	}

	if cfg.Completion.MaxTokens < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "completion.maxTokens",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Completion.MaxTokens),
		})
	}

	if t := cfg.Completion.Temperature; t != nil && (*t < 0 || *t > 2) {
		issues = append(issues, ValidationIssue{
			Path:    "completion.temperature",
			Message: fmt.Sprintf("must be between 0 and 2, got %g", *t),
		})
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}
	if cfg.Server.Bind == "custom" && cfg.Server.Host == "" {
		issues = append(issues, ValidationIssue{
			Path:    "server.host",
			Message: "required when bind: custom",
		})
	}

	validStores := []string{"sqlite", "memory"}
	if cfg.Session.Store != "" && !slices.Contains(validStores, cfg.Session.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "session.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.Session.Store),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
