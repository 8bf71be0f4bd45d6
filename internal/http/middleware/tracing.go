package middleware

import (
	"net/http"
	"strings"

	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/trace"
)

// TracingMiddleware adds OpenCensus tracing to HTTP requests. Spans are named
// after the RPC method, e.g. "POST editor.appendBlock".
func TracingMiddleware(next http.Handler) http.Handler {
	annotated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.FromContext(r.Context())
		if span == nil {
			next.ServeHTTP(w, r)
			return
		}

		span.AddAttributes(
			trace.StringAttribute("http.host", r.Host),
			trace.StringAttribute("http.user_agent", r.UserAgent()),
			trace.StringAttribute("rpc.method", rpcMethod(r.URL.Path)),
		)
		if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
			span.AddAttributes(trace.StringAttribute("http.request_id", requestID))
		}
		if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
			span.AddAttributes(trace.StringAttribute("editor.session_id", sessionID))
		}

		next.ServeHTTP(&traceResponseWriter{ResponseWriter: w, span: span}, r)
	})

	return &ochttp.Handler{
		Handler: annotated,
		FormatSpanName: func(r *http.Request) string {
			return r.Method + " " + rpcMethod(r.URL.Path)
		},
		IsPublicEndpoint: true,
	}
}

// rpcMethod strips the /api/ prefix of RPC-style routes
func rpcMethod(path string) string {
	if method := strings.TrimPrefix(path, "/api/"); method != "" {
		return method
	}
	return path
}

// traceResponseWriter records the status code on the request span
type traceResponseWriter struct {
	http.ResponseWriter
	span       *trace.Span
	statusCode int
}

func (trw *traceResponseWriter) WriteHeader(code int) {
	trw.statusCode = code
	trw.span.AddAttributes(trace.Int64Attribute("http.status_code", int64(code)))

	// 4xx and 5xx mark the span as failed
	if code >= 400 {
		trw.span.SetStatus(trace.Status{
			Code:    trace.StatusCodeUnknown,
			Message: http.StatusText(code),
		})
	}

	trw.ResponseWriter.WriteHeader(code)
}

var _ http.ResponseWriter = (*traceResponseWriter)(nil)
