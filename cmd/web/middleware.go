package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mleino/teamtrain/internal/errors"
	"github.com/mleino/teamtrain/internal/logging"
)

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		headerWritten:  false,
	}
}

func (mw *statusResponseWriter) WriteHeader(statusCode int) {
	mw.ResponseWriter.WriteHeader(statusCode)

	if !mw.headerWritten {
		mw.statusCode = statusCode
		mw.headerWritten = true
	}
}

func (mw *statusResponseWriter) Write(b []byte) (int, error) {
	mw.headerWritten = true
	written, err := mw.ResponseWriter.Write(b)
	if err != nil {
		return written, fmt.Errorf("write response: %w", err)
	}
	return written, nil
}

func (mw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return mw.ResponseWriter
}

// logRequest enriches the request context with request attributes and logs
// the response status and duration.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithAttrs(r.Context(),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))
		r = r.WithContext(ctx)

		sw := newStatusResponseWriter(w)
		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		app.logger.LogAttrs(ctx, slog.LevelInfo, "handled request",
			slog.Int("status", sw.statusCode),
			slog.Duration("duration", duration))

		if app.recorder != nil && duration > slowRequestThreshold {
			app.recorder.CaptureSlowRequestTrace(ctx, duration)
		}
	})
}

// slowRequestThreshold marks a request as worth a diagnostic trace. Local
// scoring is pure computation; anything past a second points at storage or
// the remote scorer.
const slowRequestThreshold = 5 * time.Second

// recoverPanic turns handler panics into 500 responses instead of tearing
// down the connection.
func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				w.Header().Set("Connection", "close")
				app.logger.LogAttrs(r.Context(), slog.LevelError, "panic in handler",
					errors.SlogError(errors.DecoratePanic(recovered)))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
