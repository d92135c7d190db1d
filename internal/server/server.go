// Package server exposes the tool registry over MCP (stdio or streamable HTTP)
// and a small JSON surface for remote mode.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"anchain-mcp/internal/anchain"
	"anchain-mcp/internal/config"
	"anchain-mcp/internal/tools"
	"anchain-mcp/internal/zlog"
)

const (
	serverName   = "AnChain.AI"
	instructions = "AnChain.AI tools for AML compliance and crypto screening: address risk and labels, " +
		"transaction analytics, OFAC and global sanctions screening, and crypto news. Every call spends API credits."
	shutdownGrace = 10 * time.Second

	// statusClientClosed is reported when the caller goes away mid-call.
	statusClientClosed = 499
)

// Server contains the MCP server, the remote-mode router and the tool registry.
type Server struct {
	cfg        config.Config
	registry   *tools.Registry
	mcp        *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	router     *chi.Mux
}

// New constructs a Server with every registry tool advertised and routes configured.
func New(cfg config.Config, registry *tools.Registry, version string) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		router:   chi.NewRouter(),
	}
	s.mcp = mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithInstructions(instructions),
		mcpserver.WithRecovery(),
		mcpserver.WithToolHandlerMiddleware(logToolCalls),
	)
	registry.RegisterTools(s.mcp)

	s.streamable = mcpserver.NewStreamableHTTPServer(s.mcp,
		mcpserver.WithStateLess(true),
		mcpserver.WithHTTPContextFunc(withRequestAPIKey),
	)

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.With(s.auth).Handle("/mcp", s.streamable)
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})
	return s
}

// Router exposes the root HTTP handler for remote mode.
func (s *Server) Router() http.Handler { return s.router }

// ServeStdio runs the MCP stdio transport until in is exhausted or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(zlog.L()))
	zlog.Info("serving MCP over stdio", zap.Int("tools", len(s.registry.Specs())))
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, io.EOF) || (err != nil && ctx.Err() != nil) {
		return nil
	}
	return err
}

// ListenAndServe runs the remote HTTP transport until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if s.cfg.TLSCertFile != "" {
			zlog.Info("serving MCP over HTTPS", zap.String("addr", srv.Addr))
			errCh <- srv.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
			return
		}
		zlog.Info("serving MCP over HTTP", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	_ = s.streamable.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// withRequestAPIKey takes the caller's AnChain key from the request so each
// remote client is billed on its own key.
func withRequestAPIKey(ctx context.Context, r *http.Request) context.Context {
	return anchain.WithAPIKey(ctx, strings.TrimSpace(r.Header.Get(anchain.APIKeyHeader)))
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	specs := s.registry.Specs()
	out := make([]Tool, 0, len(specs))
	for i := range specs {
		out = append(out, toolFromSpec(&specs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx := withRequestAPIKey(r.Context(), r)
	raw, err := s.registry.Invoke(ctx, req.Name, req.Args)
	if err != nil {
		status := callStatus(err)
		body := map[string]any{"error": err.Error()}
		var apiErr *anchain.APIError
		if errors.As(err, &apiErr) {
			body["status"] = apiErr.StatusCode
		}
		zlog.Warn("api call failed", zap.String("tool", req.Name), zap.Int("status", status), zap.Error(err))
		writeJSON(w, status, body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

// callStatus maps an invocation error to the HTTP status of the JSON surface.
func callStatus(err error) int {
	var verr *tools.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, anchain.ErrMissingAPIKey):
		return http.StatusUnauthorized
	case errors.Is(err, context.Canceled):
		return statusClientClosed
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
