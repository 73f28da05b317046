package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/campusworks/storefront-checkout/pkg/logger"
)

// SessionHeader carries the buyer's checkout session id. The storefront is
// guest-only, so the session id is the whole identity: clients echo the header
// back and the server mints one when it is absent or malformed.
const SessionHeader = "X-Checkout-Session"

type contextKey string

const ctxSessionID contextKey = "session_id"

func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithSessionID injects the session identifier into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
