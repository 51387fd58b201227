package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain"
)

// RequestHandler processes a single RPC request and returns a payload
// or an error shape.
type RequestHandler func(ctx context.Context, rc *RequestContext) (any, *ErrorShape)

// RequestContext carries per-request state into RPC handlers.
type RequestContext struct {
	Client *Client
	Method string
	Params json.RawMessage
}

// BindParams unmarshals the request params into dst.
func (rc *RequestContext) BindParams(dst any) *ErrorShape {
	if len(rc.Params) == 0 {
		return nil
	}
	if err := json.Unmarshal(rc.Params, dst); err != nil {
		return &ErrorShape{Code: "bad_params", Message: "invalid parameters: " + err.Error()}
	}
	return nil
}

// HealthResponse is returned by the health endpoint and RPC method.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Clients int    `json:"clients"`
	Time    string `json:"time"`
}

// ChatRequest is the body of POST /api/assistant/chat and the params
// of the chat.send RPC method.
type ChatRequest struct {
	Message      string              `json:"message"`
	PageContext  *domain.PageContext `json:"pageContext,omitempty"`
	UserID       string              `json:"userId,omitempty"`
	RestaurantID string              `json:"restaurantId,omitempty"`
	Role         string              `json:"role,omitempty"`
}

// ChatResponse is the reply envelope for the chat surface.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// SessionInfo describes one stored conversation in session.list results.
type SessionInfo struct {
	ID string `json:"id"`
}

func (s *Server) healthResponse() HealthResponse {
	return HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Clients: s.clients.Count(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}
