package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lumenpress/albumforge-backend/api/responses"
	pkgAuth "github.com/lumenpress/albumforge-backend/pkg/auth"
	"github.com/lumenpress/albumforge-backend/pkg/config"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
)

// StudioAuth validates a bearer token and seeds the request context with the
// studio user claims.
func StudioAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseStudioToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxStudioUserID, claims.StudioUserID.String())
			ctx = context.WithValue(ctx, ctxStudioEmail, claims.Email)

			if logg != nil {
				ctx = logg.WithStudioUser(ctx, claims.StudioUserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
