package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"anchain-mcp/internal/zlog"
)

// logToolCalls tags each invocation with an id and logs its outcome and duration.
func logToolCalls(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := uuid.NewString()
		start := time.Now()
		zlog.Debug("tool call start", zap.String("invocation_id", id), zap.String("tool", req.Params.Name))

		res, err := next(ctx, req)

		fields := []zap.Field{
			zap.String("invocation_id", id),
			zap.String("tool", req.Params.Name),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch {
		case err != nil:
			zlog.Error("tool call failed", append(fields, zap.Error(err))...)
		case res != nil && res.IsError:
			zlog.Warn("tool call returned error", fields...)
		default:
			zlog.Info("tool call", fields...)
		}
		return res, err
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zlog.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
