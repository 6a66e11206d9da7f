package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/florale-backend/api/responses"
	pkgAuth "github.com/angelmondragon/florale-backend/pkg/auth"
	"github.com/angelmondragon/florale-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
)

// AdminAuth validates a staff bearer token and seeds the request context with the claims.
// Browsers cannot set headers on websocket upgrades, so the token is also read from the
// access_token query parameter on upgrade requests.
func AdminAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token id"))
				return
			}

			ctx := WithStaff(r.Context(), claims.StaffID, string(claims.Role), claims.PointID)
			ctx = logg.WithStaff(ctx, claims.StaffID, string(claims.Role))
			if claims.PointID != "" {
				ctx = logg.WithPointID(ctx, claims.PointID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" && strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		token = strings.TrimSpace(r.URL.Query().Get("access_token"))
	}
	return token
}
