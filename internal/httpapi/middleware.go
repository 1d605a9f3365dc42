package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cinema/internal/cache"
	"github.com/fjod/go_cinema/internal/domain"
	"github.com/fjod/go_cinema/internal/service"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ctxKey int

const (
	ctxKeySessionID ctxKey = iota
	ctxKeyUser
)

// SessionCookie carries the session id between requests.
const SessionCookie = "cine_sid"

// SessionMiddleware resolves the session cookie to a user and stashes both
// in the request context. Requests without a valid session pass through
// anonymously; handlers that need identity reject them.
func SessionMiddleware(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySessionID, cookie.Value)

			user, err := sessions.User(ctx, cookie.Value)
			if err != nil && !errors.Is(err, cache.ErrSessionNotFound) {
				respondError(w, http.StatusInternalServerError, "session_lookup_failed", "could not resolve session")
				return
			}
			if user != nil {
				ctx = context.WithValue(ctx, ctxKeyUser, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return sid
	}
	return ""
}

func userFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(ctxKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}

// RequestLogger logs one line per request with zap.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
