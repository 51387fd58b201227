package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsAreClean(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidateCatchesIssues(t *testing.T) {
	temp := 3.5
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"bad base url", func(c *Config) { c.Completion.BaseURL = "ftp://nope" }, "completion.baseUrl"},
		{"missing model", func(c *Config) { c.Completion.Model = "" }, "completion.model"},
		{"negative max tokens", func(c *Config) { c.Completion.MaxTokens = -1 }, "completion.maxTokens"},
		{"temperature out of range", func(c *Config) { c.Completion.Temperature = &temp }, "completion.temperature"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad bind", func(c *Config) { c.Server.Bind = "everywhere" }, "server.bind"},
		{"custom bind without host", func(c *Config) { c.Server.Bind = "custom" }, "server.host"},
		{"bad store", func(c *Config) { c.Session.Store = "redis" }, "session.store"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			issues := Validate(&cfg)
			require.NotEmpty(t, issues)

			found := false
			for _, issue := range issues {
				if issue.Path == tt.path {
					found = true
				}
			}
			assert.True(t, found, "expected an issue at %s, got %v", tt.path, issues)
		})
	}
}
