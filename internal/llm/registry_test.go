package llm

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/greenbasket/internal/logging"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(logging.New(io.Discard, "error"))
}

func TestResolveByProviderName(t *testing.T) {
	r := testRegistry(t)
	r.Register("openai", &MockClient{ProviderName: "openai"})

	c, err := r.Resolve("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

func TestResolveByAlias(t *testing.T) {
	r := testRegistry(t)
	r.Register("openai", &MockClient{ProviderName: "openai"})
	r.Alias("gpt-4o-mini", "openai")

	c, err := r.Resolve("gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

func TestResolveFallback(t *testing.T) {
	r := testRegistry(t)
	r.Register("openai", &MockClient{ProviderName: "openai"})
	r.SetFallback("openai")

	c, err := r.Resolve("some-unknown-model")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

func TestResolveUnknownFails(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Resolve("nothing-registered")
	assert.Error(t, err)
}

func TestListReturnsProviders(t *testing.T) {
	r := testRegistry(t)
	assert.Empty(t, r.List())

	r.Register("openai", &MockClient{ProviderName: "openai"})
	r.Register("proxy", &MockClient{ProviderName: "proxy"})
	assert.ElementsMatch(t, []string{"openai", "proxy"}, r.List())
}
