package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestCompleteParsesContent(t *testing.T) {
	ts := completionServer(t, http.StatusOK, `{
		"id": "cmpl-1",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
	}`)

	c := NewOpenAIClient(ts.URL, "test-key", "gpt-4o-mini")
	resp, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 3, resp.Usage.OutputTokens)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
}

func TestCompleteParsesToolCalls(t *testing.T) {
	ts := completionServer(t, http.StatusOK, `{
		"choices": [{"message": {"role": "assistant", "content": "",
			"tool_calls": [{"id": "call-1", "type": "function",
				"function": {"name": "viewMyCart", "arguments": "{}"}}]},
			"finish_reason": "tool_calls"}],
		"usage": {"prompt_tokens": 1, "completion_tokens": 1}
	}`)

	c := NewOpenAIClient(ts.URL, "test-key", "gpt-4o-mini")
	resp, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "what's in my cart"}},
		Tools:    []ToolDefinition{{Name: "viewMyCart", Description: "view cart", Parameters: `{"type":"object"}`}},
	})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call-1", resp.ToolCalls[0].ID)
	assert.Equal(t, "viewMyCart", resp.ToolCalls[0].Function.Name)
}

func TestCompleteSurfacesHTTPErrors(t *testing.T) {
	ts := completionServer(t, http.StatusTooManyRequests, `{"error": {"message": "rate limited"}}`)

	c := NewOpenAIClient(ts.URL, "test-key", "gpt-4o-mini")
	_, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 429, pe.Code)
	assert.Equal(t, "openai", pe.Provider)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	c := NewOpenAIClient("http://localhost:1", "", "gpt-4o-mini")
	_, err := c.Complete(context.Background(), CompletionRequest{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 401, pe.Code)
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	ts := completionServer(t, http.StatusOK, `{"choices": [], "usage": {}}`)

	c := NewOpenAIClient(ts.URL, "test-key", "gpt-4o-mini")
	_, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 502, pe.Code)
}

func TestBuildRequestBodyIncludesTools(t *testing.T) {
	c := NewOpenAIClient("", "k", "m")
	temp := 0.2
	body := c.buildRequestBody("m", CompletionRequest{
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Tools:       []ToolDefinition{{Name: "navigation", Parameters: `{"type":"object","properties":{"page":{"type":"string"}}}`}},
		MaxTokens:   256,
		Temperature: &temp,
	})

	assert.Equal(t, 256, body["max_tokens"])
	assert.Equal(t, 0.2, body["temperature"])

	raw, err := json.Marshal(body["tools"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"navigation"`)
	assert.Contains(t, string(raw), `"type":"function"`)
}

func TestParseJSONSchemaMalformedDegradesToNil(t *testing.T) {
	assert.Nil(t, parseJSONSchema(""))
	assert.Nil(t, parseJSONSchema("{not json"))
	assert.NotNil(t, parseJSONSchema(`{"type":"object"}`))
}
