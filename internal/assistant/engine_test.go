package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/llm"
	"github.com/greenbasket/greenbasket/internal/logging"
	"github.com/greenbasket/greenbasket/internal/repo"
	"github.com/greenbasket/greenbasket/internal/tools"
)

func newTestEngine(t *testing.T, complete func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)) (*Engine, *repo.Memory) {
	t.Helper()

	mem := repo.NewMemory()
	mem.PutRestaurant(domain.Restaurant{ID: "r1", Name: "Leafy Corner", Rating: 4.8})
	mem.PutProduct(domain.Product{ID: "p1", RestaurantID: "r1", Name: "Oat Bowl", Category: "breakfast", PriceCents: 650, Rating: 4.5, Sustainability: 91})
	mem.PutProduct(domain.Product{ID: "p2", RestaurantID: "r1", Name: "Lentil Soup", Category: "lunch", PriceCents: 450, Rating: 4.1, Sustainability: 82})
	mem.PutUser(domain.User{ID: "u1", Name: "Maya", Points: 120})

	log := logging.New(io.Discard, "silent")
	client := &llm.MockClient{ProviderName: "mock", CompleteFunc: complete}
	executor := tools.NewExecutor(mem.Repos(), log)
	engine := New(Config{Model: "test-model"}, client, executor, mem.Repos(), log)
	return engine, mem
}

func textResponse(content string) func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return &llm.CompletionResponse{Content: content}, nil
	}
}

func TestFastPathExactMatch(t *testing.T) {
	calls := 0
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		calls++
		return &llm.CompletionResponse{Content: "model answer"}, nil
	})

	reply, err := engine.GenerateResponse(context.Background(), Request{Message: "Show me eco-friendly products"})
	require.NoError(t, err)
	assert.Contains(t, reply, "Oat Bowl")
	assert.Contains(t, reply, "Lentil Soup")
	assert.Zero(t, calls, "fast path must not call the model")
}

func TestFastPathIsCaseSensitive(t *testing.T) {
	calls := 0
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		calls++
		return &llm.CompletionResponse{Content: "model answer"}, nil
	})

	reply, err := engine.GenerateResponse(context.Background(), Request{Message: "show me eco-friendly products"})
	require.NoError(t, err)
	assert.Equal(t, "model answer", reply)
	assert.Equal(t, 1, calls, "variant phrasing must go to the model")
}

func TestFastPathAuthFailureFallsThrough(t *testing.T) {
	// "What's in my cart?" needs a signed-in user; anonymous callers
	// fall through to the model instead of getting an error.
	engine, _ := newTestEngine(t, textResponse("you need to sign in"))

	reply, err := engine.GenerateResponse(context.Background(), Request{Message: "What's in my cart?"})
	require.NoError(t, err)
	assert.Equal(t, "you need to sign in", reply)
}

func TestFastPathEmptyCart(t *testing.T) {
	engine, _ := newTestEngine(t, textResponse("unused"))

	reply, err := engine.GenerateResponse(context.Background(), Request{
		Message: "What's in my cart?",
		UserID:  "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, cartEmptyReply, reply)
}

func TestFastPathPureTemplates(t *testing.T) {
	calls := 0
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		calls++
		return &llm.CompletionResponse{Content: "unused"}, nil
	})

	reply, err := engine.GenerateResponse(context.Background(), Request{Message: "How does Greenbasket work?"})
	require.NoError(t, err)
	assert.Contains(t, reply, "Greenbasket")

	reply, err = engine.GenerateResponse(context.Background(), Request{Message: "Take me to my cart"})
	require.NoError(t, err)
	assert.Contains(t, reply, "/cart")

	assert.Zero(t, calls)
}

func TestToolLoopMessageOrdering(t *testing.T) {
	round := 0
	var secondRequest llm.CompletionRequest
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		round++
		if round == 1 {
			return &llm.CompletionResponse{ToolCalls: []llm.ToolCall{{
				ID:       "call-1",
				Type:     "function",
				Function: llm.FunctionCall{Name: "getTopRatedProducts", Arguments: `{"limit":2}`},
			}}}, nil
		}
		secondRequest = req
		return &llm.CompletionResponse{Content: "here are the products"}, nil
	})

	reply, err := engine.GenerateResponse(context.Background(), Request{Message: "best products?", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "here are the products", reply)
	require.Equal(t, 2, round)

	msgs := secondRequest.Messages
	require.GreaterOrEqual(t, len(msgs), 4)

	// ... system, user, assistant-with-tool-calls, tool-result.
	asst := msgs[len(msgs)-2]
	toolMsg := msgs[len(msgs)-1]
	assert.Equal(t, llm.RoleAssistant, asst.Role)
	require.Len(t, asst.ToolCalls, 1)
	assert.Equal(t, llm.RoleTool, toolMsg.Role)
	assert.Equal(t, "call-1", toolMsg.ToolCallID)
	assert.Equal(t, "getTopRatedProducts", toolMsg.Name)

	var products []domain.Product
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &products))
	assert.Len(t, products, 2)
}

func TestToolErrorsBecomePayloadsNotFailures(t *testing.T) {
	round := 0
	var toolContent string
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		round++
		if round == 1 {
			return &llm.CompletionResponse{ToolCalls: []llm.ToolCall{
				{ID: "c1", Function: llm.FunctionCall{Name: "viewMyCart", Arguments: "{}"}},
				{ID: "c2", Function: llm.FunctionCall{Name: "getTopRatedProducts", Arguments: "{}"}},
			}}, nil
		}
		toolContent = req.Messages[len(req.Messages)-2].Content
		return &llm.CompletionResponse{Content: "done"}, nil
	})

	// Anonymous session: viewMyCart fails authorization inside the
	// loop, but the batch continues and the call still gets a payload.
	reply, err := engine.GenerateResponse(context.Background(), Request{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Contains(t, toolContent, "authentication required")
}

func TestLoopBudgetIsThreeRounds(t *testing.T) {
	calls := 0
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		calls++
		return &llm.CompletionResponse{ToolCalls: []llm.ToolCall{{
			ID:       "loop",
			Function: llm.FunctionCall{Name: "getTopRatedProducts", Arguments: "{}"},
		}}}, nil
	})

	done := make(chan struct{})
	var err error
	go func() {
		_, err = engine.GenerateResponse(context.Background(), Request{Message: "loop forever"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine hung instead of tripping the iteration budget")
	}

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, maxToolRounds, calls, "must stop after exactly three model round-trips")
}

func TestRateLimitPropagates(t *testing.T) {
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return nil, &llm.ProviderError{Provider: "mock", Message: "slow down", Code: 429}
	})

	_, err := engine.GenerateResponse(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrRateLimit)
}

func TestOtherProviderFailuresBecomeServiceUnavailable(t *testing.T) {
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return nil, &llm.ProviderError{Provider: "mock", Message: "boom", Code: 500}
	})

	_, err := engine.GenerateResponse(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestAccountSummaryFailureIsFatal(t *testing.T) {
	// A user id with no backing account must fail the request rather
	// than answering as if the caller were anonymous.
	engine, _ := newTestEngine(t, textResponse("unused"))

	_, err := engine.GenerateResponse(context.Background(), Request{Message: "hi", UserID: "ghost"})
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestHistoryIsForwarded(t *testing.T) {
	var got llm.CompletionRequest
	engine, _ := newTestEngine(t, func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		got = req
		return &llm.CompletionResponse{Content: "ok"}, nil
	})

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "earlier question"},
		{Role: llm.RoleAssistant, Content: "earlier answer"},
	}
	_, err := engine.GenerateResponse(context.Background(), Request{Message: "follow-up", History: history})
	require.NoError(t, err)

	require.Len(t, got.Messages, 4)
	assert.Equal(t, llm.RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "earlier question", got.Messages[1].Content)
	assert.Equal(t, "earlier answer", got.Messages[2].Content)
	assert.Equal(t, "follow-up", got.Messages[3].Content)
	assert.NotEmpty(t, got.Tools)
}

// brokenStats fails the platform snapshot while keeping the account
// summaries of the wrapped repo intact.
type brokenStats struct {
	repo.StatsRepo
}

func (brokenStats) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	return nil, errors.New("stats query timed out")
}

func TestSnapshotFailureDegradesToPlaceholder(t *testing.T) {
	mem := repo.NewMemory()
	mem.PutUser(domain.User{ID: "u1", Name: "Maya", Points: 120})
	repos := mem.Repos()
	repos.Stats = brokenStats{repos.Stats}

	var got llm.CompletionRequest
	log := logging.New(io.Discard, "silent")
	client := &llm.MockClient{ProviderName: "mock", CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		got = req
		return &llm.CompletionResponse{Content: "still answering"}, nil
	}}
	engine := New(Config{Model: "test-model"}, client, tools.NewExecutor(repos, log), repos, log)

	// The account summary succeeds in the same fan-out, so a snapshot
	// failure alone must not fail the request.
	reply, err := engine.GenerateResponse(context.Background(), Request{Message: "how green is the platform?", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "still answering", reply)

	require.NotEmpty(t, got.Messages)
	prompt := got.Messages[0].Content
	assert.Contains(t, prompt, snapshotUnavailable)
	assert.Contains(t, prompt, "Maya")
}
