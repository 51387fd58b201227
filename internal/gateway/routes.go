package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/greenbasket/greenbasket/internal/assistant"
	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/llm"
)

const chatTimeout = 2 * time.Minute

func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/assistant/chat", s.handleChat)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.healthResponse())
}

// handleChat is the HTTP chat surface. It requires the gateway token,
// replays stored history for signed-in callers, and maps the engine's
// two boundary errors onto 429 and 503.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.auth.CheckToken(bearerToken(r.Header.Get("Authorization"))) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	reply, err := s.chat(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrRateLimit):
			writeError(w, http.StatusTooManyRequests, "The assistant is receiving too many requests. Please try again shortly.")
		default:
			writeError(w, http.StatusServiceUnavailable, "The assistant is temporarily unavailable. Please try again later.")
		}
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

// chat runs one assistant turn. Signed-in callers get their stored
// conversation replayed and persisted; anonymous callers get a
// stateless turn.
func (s *Server) chat(ctx context.Context, req ChatRequest) (string, error) {
	var history []llm.Message
	var conversationID string

	if key := conversationKey(req); key != "" {
		conv := s.conversations.GetOrCreate(key)
		conversationID = conv.ID
		history = s.trimHistory(s.conversations.History(conv.ID))
	}

	reply, err := s.engine.GenerateResponse(ctx, assistant.Request{
		Message:      req.Message,
		History:      history,
		Page:         req.PageContext,
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		Role:         domain.Role(req.Role),
	})
	if err != nil {
		return "", err
	}

	if conversationID != "" {
		s.conversations.Append(conversationID, llm.Message{Role: llm.RoleUser, Content: req.Message})
		s.conversations.Append(conversationID, llm.Message{Role: llm.RoleAssistant, Content: reply})
	}
	return reply, nil
}

// conversationKey derives the history key from caller identity.
// Anonymous callers get no key and therefore no persistence.
func conversationKey(req ChatRequest) string {
	switch {
	case req.UserID != "":
		return "user:" + req.UserID
	case req.RestaurantID != "":
		return "restaurant:" + req.RestaurantID
	default:
		return ""
	}
}

// trimHistory keeps only the most recent messages, bounded by the
// configured session size.
func (s *Server) trimHistory(history []llm.Message) []llm.Message {
	max := s.cfg.Session.MaxMessages
	if max <= 0 || len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}

func (s *Server) registerRPCHandlers() {
	s.handlers["health"] = s.rpcHealth
	s.handlers["chat.send"] = s.rpcChatSend
	s.handlers["session.list"] = s.rpcSessionList
}

func (s *Server) rpcHealth(ctx context.Context, rc *RequestContext) (any, *ErrorShape) {
	return s.healthResponse(), nil
}

func (s *Server) rpcChatSend(ctx context.Context, rc *RequestContext) (any, *ErrorShape) {
	var req ChatRequest
	if errShape := rc.BindParams(&req); errShape != nil {
		return nil, errShape
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ErrorShape{Code: "bad_params", Message: "message is required"}
	}

	reply, err := s.chat(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrRateLimit):
			return nil, &ErrorShape{
				Code:       "rate_limited",
				Message:    "The assistant is receiving too many requests. Please try again shortly.",
				Retryable:  true,
				RetryAfter: 5000,
			}
		default:
			return nil, &ErrorShape{
				Code:      "unavailable",
				Message:   "The assistant is temporarily unavailable. Please try again later.",
				Retryable: true,
			}
		}
	}
	return ChatResponse{Reply: reply}, nil
}

func (s *Server) rpcSessionList(ctx context.Context, rc *RequestContext) (any, *ErrorShape) {
	ids := s.conversations.List()
	sessions := make([]SessionInfo, 0, len(ids))
	for _, id := range ids {
		sessions = append(sessions, SessionInfo{ID: id})
	}
	return map[string]any{"sessions": sessions}, nil
}
