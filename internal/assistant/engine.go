package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/llm"
	"github.com/greenbasket/greenbasket/internal/logging"
	"github.com/greenbasket/greenbasket/internal/repo"
	"github.com/greenbasket/greenbasket/internal/tools"
)

// maxToolRounds limits how many model round-trips one request may make.
// Hitting the budget fails the request; this is a circuit breaker
// against runaway tool-calling loops, not a silent truncation.
const maxToolRounds = 3

// Config configures the engine.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

// Request is one inbound user message plus its caller context.
type Request struct {
	Message      string
	History      []llm.Message
	Page         *domain.PageContext
	UserID       string
	RestaurantID string
	Role         domain.Role
}

// Engine orchestrates context assembly, the fast path and the bounded
// tool loop.
type Engine struct {
	cfg      Config
	client   llm.Client
	executor *tools.Executor
	repos    repo.Repos
	log      *logging.Logger
}

// New creates an engine.
func New(cfg Config, client llm.Client, executor *tools.Executor, repos repo.Repos, log *logging.Logger) *Engine {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &Engine{
		cfg:      cfg,
		client:   client,
		executor: executor,
		repos:    repos,
		log:      log.Sub("assistant"),
	}
}

// GenerateResponse turns a user message into a reply. It is the engine
// boundary: the only errors it returns are ErrRateLimit and
// ErrServiceUnavailable; everything else is normalized to the latter.
func (e *Engine) GenerateResponse(ctx context.Context, req Request) (string, error) {
	reply, err := e.generate(ctx, req)
	if err != nil {
		if errors.Is(err, ErrRateLimit) {
			return "", ErrRateLimit
		}
		e.log.Error().Err(err).Msg("generation failed")
		return "", ErrServiceUnavailable
	}
	return reply, nil
}

func (e *Engine) generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	session := domain.SessionContext{
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		Role:         req.Role,
	}

	bundle, err := e.buildContext(ctx, req.Page, session)
	if err != nil {
		return "", err
	}

	if reply, ok := e.tryFastPath(ctx, req.Message, session); ok {
		e.log.Info().Dur("duration", time.Since(start)).Msg("answered on fast path")
		return reply, nil
	}

	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: buildSystemPrompt(bundle)})
	messages = append(messages, req.History...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	defs := tools.Definitions()

	for round := 0; round < maxToolRounds; round++ {
		resp, err := e.client.Complete(ctx, llm.CompletionRequest{
			Model:       e.cfg.Model,
			Messages:    messages,
			Tools:       defs,
			MaxTokens:   e.cfg.MaxTokens,
			Temperature: e.cfg.Temperature,
		})
		if err != nil {
			return "", classifyProviderError(err)
		}

		if len(resp.ToolCalls) == 0 {
			e.log.Info().
				Int("rounds", round+1).
				Int("inputTokens", resp.Usage.InputTokens).
				Int("outputTokens", resp.Usage.OutputTokens).
				Dur("duration", time.Since(start)).
				Msg("response generated")
			return resp.Content, nil
		}

		e.log.Info().Int("round", round+1).Int("toolCalls", len(resp.ToolCalls)).Msg("executing tool calls")

		// The assistant turn with its tool calls goes first, then one
		// tool message per call in the same order, matching IDs.
		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			messages = append(messages, e.runToolCall(ctx, call, session))
		}
	}

	return "", errMaxIterations
}

// runToolCall executes one requested tool and packages the outcome as a
// tool message. A failed call becomes an error payload rather than
// aborting the batch, so the model can explain the problem to the user.
func (e *Engine) runToolCall(ctx context.Context, call llm.ToolCall, session domain.SessionContext) llm.Message {
	name := call.Function.Name

	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			e.log.Warn().Str("tool", name).Err(err).Msg("malformed tool arguments")
			return toolMessage(call, errorPayload("malformed arguments"))
		}
	}

	result, err := e.executor.Execute(ctx, name, args, session)
	if err != nil {
		// Authorization errors keep their exact message so the model
		// can explain the restriction; the rest are already wrapped as
		// generic execution failures.
		return toolMessage(call, errorPayload(err.Error()))
	}

	payload, err := json.Marshal(result)
	if err != nil {
		e.log.Error().Str("tool", name).Err(err).Msg("unserializable tool result")
		return toolMessage(call, errorPayload("internal error"))
	}
	return toolMessage(call, string(payload))
}

func toolMessage(call llm.ToolCall, content string) llm.Message {
	return llm.Message{
		Role:       llm.RoleTool,
		Name:       call.Function.Name,
		ToolCallID: call.ID,
		Content:    content,
	}
}

func errorPayload(msg string) string {
	payload, _ := json.Marshal(map[string]string{"error": msg})
	return string(payload)
}

// classifyProviderError maps completion-service failures onto the
// boundary taxonomy: HTTP 429 means rate limited, anything else means
// the service is unavailable. Neither is retried here.
func classifyProviderError(err error) error {
	var pe *llm.ProviderError
	if errors.As(err, &pe) && pe.Code == http.StatusTooManyRequests {
		return ErrRateLimit
	}
	return ErrServiceUnavailable
}
