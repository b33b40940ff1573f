package remote

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/openai/openai-go/v3"

	"github.com/mleino/teamtrain/internal/errors"
)

// Remote scoring failure classes. All four are recoverable: callers are
// expected to fall back to the local rule-based engine.
var (
	ErrAuthInvalid       = errors.NewSentinel("remote scorer: auth invalid")
	ErrRateLimited       = errors.NewSentinel("remote scorer: rate limited")
	ErrMalformedResponse = errors.NewSentinel("remote scorer: malformed response")
	ErrNetwork           = errors.NewSentinel("remote scorer: network error")
)

// classifyRequestFailure maps a transport or API error onto one of the
// failure sentinels, keeping the original error text as an annotation.
func classifyRequestFailure(err error) error {
	sentinel := ErrNetwork

	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			sentinel = ErrAuthInvalid
		case http.StatusTooManyRequests:
			sentinel = ErrRateLimited
		default:
			sentinel = ErrNetwork
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		sentinel = ErrNetwork
	}

	return errors.Wrap(sentinel, "chat completion", slog.String("cause", err.Error()))
}
