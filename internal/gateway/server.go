// Package gateway exposes the assistant over HTTP and WebSocket. The
// HTTP surface carries the chat endpoint and health checks; the
// WebSocket surface speaks a small req/res/event frame protocol with a
// challenge/connect handshake.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/greenbasket/greenbasket/internal/assistant"
	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/logging"
	"github.com/greenbasket/greenbasket/internal/store"
)

// Responder produces assistant replies. Satisfied by *assistant.Engine.
type Responder interface {
	GenerateResponse(ctx context.Context, req assistant.Request) (string, error)
}

// Server hosts the HTTP and WebSocket surfaces.
type Server struct {
	cfg           config.Config
	auth          ResolvedAuth
	log           *logging.Logger
	engine        Responder
	conversations store.ConversationStore
	clients       *ClientRegistry
	handlers      map[string]RequestHandler
	version       string
	startedAt     time.Time

	httpServer  *http.Server
	upgrader    websocket.Upgrader
	authLimiter *authRateLimiter
}

// NewServer creates a gateway server. The auth token is resolved from
// config and environment at construction time.
func NewServer(cfg config.Config, engine Responder, conversations store.ConversationStore, version string, log *logging.Logger) *Server {
	s := &Server{
		cfg:           cfg,
		auth:          ResolveAuth(cfg.Server.Auth),
		log:           log.Sub("gateway"),
		engine:        engine,
		conversations: conversations,
		clients:       NewClientRegistry(),
		handlers:      make(map[string]RequestHandler),
		version:       version,
		startedAt:     time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		authLimiter: newAuthRateLimiter(),
	}
	s.registerRPCHandlers()
	return s
}

// resolveBindAddr maps the configured bind mode to a listen address.
func resolveBindAddr(cfg config.ServerConfig) (string, error) {
	switch cfg.Bind {
	case "", "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port), nil
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port), nil
	case "custom":
		if cfg.Host == "" {
			return "", errors.New("bind mode custom requires a host")
		}
		return net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)), nil
	default:
		return "", fmt.Errorf("unknown bind mode %q", cfg.Bind)
	}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr, err := resolveBindAddr(s.cfg.Server)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	s.registerHTTPRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           withMiddleware(mux, s.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !s.auth.Enabled() {
		s.log.Warn().Msg("gateway auth disabled, all requests accepted")
	}
	s.log.Info().Str("addr", addr).Msg("gateway listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.clients.Broadcast("server.shutdown", map[string]string{"reason": "shutting down"})
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler returns the full HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerHTTPRoutes(mux)
	return withMiddleware(mux, s.log)
}

// handleWebSocket upgrades the connection and runs the handshake plus
// read loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	remoteIP := requestIP(r)
	if s.authLimiter.blocked(remoteIP) {
		writeError(w, http.StatusTooManyRequests, "too many failed authentication attempts")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client, ok := s.handshake(conn, remoteIP)
	if !ok {
		return
	}

	s.clients.Add(client)
	s.log.Info().
		Str("connId", client.ConnID).
		Str("clientId", client.Info.ID).
		Msg("client connected")

	s.readLoop(client)

	s.clients.Remove(client.ConnID)
	_ = conn.Close()
	s.log.Info().Str("connId", client.ConnID).Msg("client disconnected")
}

// handshake performs challenge -> connect -> hello-ok. The server sends
// a challenge event, the client answers with a "connect" request
// carrying credentials, and the server replies with HelloOK or an error.
func (s *Server) handshake(conn *websocket.Conn, remoteIP string) (*Client, bool) {
	connID := uuid.NewString()

	challenge, err := NewEvent("connect.challenge", map[string]string{"connId": connID}, 0)
	if err == nil {
		err = conn.WriteJSON(challenge)
	}
	if err != nil {
		_ = conn.Close()
		return nil, false
	}

	_ = conn.SetReadDeadline(time.Now().Add(15 * time.Second))
	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		_ = conn.Close()
		return nil, false
	}
	_ = conn.SetReadDeadline(time.Time{})

	if frame.Type != FrameTypeRequest || frame.Method != "connect" {
		s.sendErrorAndClose(conn, frame.ID, ErrorShape{Code: "bad_handshake", Message: "expected connect request"})
		return nil, false
	}

	var params ConnectParams
	if len(frame.Params) > 0 {
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			s.sendErrorAndClose(conn, frame.ID, ErrorShape{Code: "bad_handshake", Message: "invalid connect params"})
			return nil, false
		}
	}

	if params.MaxProtocol != 0 && params.MaxProtocol < ProtocolVersion {
		s.sendErrorAndClose(conn, frame.ID, ErrorShape{
			Code:    "protocol_mismatch",
			Message: fmt.Sprintf("server requires protocol %d", ProtocolVersion),
		})
		return nil, false
	}

	presented := ""
	if params.Auth != nil {
		presented = params.Auth.Token
	}
	if !s.auth.CheckToken(presented) {
		s.authLimiter.recordFailure(remoteIP)
		s.sendErrorAndClose(conn, frame.ID, ErrorShape{Code: "unauthorized", Message: "invalid token"})
		return nil, false
	}
	s.authLimiter.recordSuccess(remoteIP)

	client := &Client{
		ConnID:      connID,
		Info:        params.Client,
		ConnectedAt: time.Now(),
		conn:        conn,
	}

	hello := HelloOK{
		Protocol: ProtocolVersion,
		Server:   ServerInfo{Version: s.version, ConnID: connID},
		Features: Features{
			Methods: s.methodNames(),
			Events:  []string{"connect.challenge", "server.shutdown"},
		},
	}
	res, err := NewResponse(frame.ID, hello)
	if err != nil || client.Send(res) != nil {
		_ = conn.Close()
		return nil, false
	}
	return client, true
}

func (s *Server) sendErrorAndClose(conn *websocket.Conn, id string, shape ErrorShape) {
	_ = conn.WriteJSON(NewErrorResponse(id, shape))
	_ = conn.Close()
}

// readLoop dispatches request frames until the connection drops.
func (s *Server) readLoop(client *Client) {
	for {
		var frame Frame
		if err := client.conn.ReadJSON(&frame); err != nil {
			return
		}
		if frame.Type != FrameTypeRequest {
			continue
		}
		go s.dispatch(client, frame)
	}
}

func (s *Server) dispatch(client *Client, frame Frame) {
	handler, ok := s.handlers[frame.Method]
	if !ok {
		_ = client.Send(NewErrorResponse(frame.ID, ErrorShape{
			Code:    "unknown_method",
			Message: fmt.Sprintf("unknown method %q", frame.Method),
		}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rc := &RequestContext{Client: client, Method: frame.Method, Params: frame.Params}
	payload, errShape := handler(ctx, rc)
	if errShape != nil {
		_ = client.Send(NewErrorResponse(frame.ID, *errShape))
		return
	}
	res, err := NewResponse(frame.ID, payload)
	if err != nil {
		_ = client.Send(NewErrorResponse(frame.ID, ErrorShape{Code: "internal", Message: "failed to encode response"}))
		return
	}
	_ = client.Send(res)
}

func (s *Server) methodNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	return names
}

func requestIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// authRateLimiter tracks failed auth attempts per source IP. After
// maxAuthFailures within the window, further attempts are rejected
// until the window expires.
type authRateLimiter struct {
	mu       sync.Mutex
	failures map[string]*authFailures
}

type authFailures struct {
	count int
	first time.Time
}

const (
	maxAuthFailures   = 5
	authFailureWindow = time.Minute
)

func newAuthRateLimiter() *authRateLimiter {
	return &authRateLimiter{failures: make(map[string]*authFailures)}
}

func (l *authRateLimiter) blocked(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, ok := l.failures[ip]
	if !ok {
		return false
	}
	if time.Since(f.first) > authFailureWindow {
		delete(l.failures, ip)
		return false
	}
	return f.count >= maxAuthFailures
}

func (l *authRateLimiter) recordFailure(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, ok := l.failures[ip]
	if !ok || time.Since(f.first) > authFailureWindow {
		l.failures[ip] = &authFailures{count: 1, first: time.Now()}
		return
	}
	f.count++
}

func (l *authRateLimiter) recordSuccess(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, ip)
}
