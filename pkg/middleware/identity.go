package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/utafrali/storefront/pkg/httputil"
)

// UserIDHeader carries the shopper identity. The storefront has no login, so
// the browser session mints an opaque id and sends it with every call.
const UserIDHeader = "X-User-ID"

// maxUserIDLen bounds the header because it becomes part of storage keys.
const maxUserIDLen = 128

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// RequireUserID reads the shopper id from the X-User-ID header and stores it
// in the request context. Requests without a usable id get 401.
func RequireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if uid == "" || len(uid) > maxUserIDLen {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "X-User-ID header is required"},
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
	})
}

// WithUserID stores the shopper id in ctx.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the shopper id from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
