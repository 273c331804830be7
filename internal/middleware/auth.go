package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tennergrid/tenner-server/internal/config"
)

type CtxKey int

const (
	CtxAdminClaims CtxKey = iota
)

// RequireAdmin rejects requests without a valid admin bearer token. Valid
// claims are stashed in the request context.
func RequireAdmin(log *logrus.Logger, jwt *config.JWT) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			claims, err := jwt.ParseAdminClaims(token)
			if err != nil {
				log.WithError(err).Warn("rejected admin token")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), CtxAdminClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
