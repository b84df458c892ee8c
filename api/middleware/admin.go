package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gamersouq/storefront-backend/api/responses"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
)

const adminTokenHeader = "X-Admin-Token"

// AdminToken gates the catalog management routes behind a static token. An
// empty configured token disables the surface entirely.
func AdminToken(token string, logg *logger.Logger) func(http.Handler) http.Handler {
	token = strings.TrimSpace(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin surface is disabled"))
				return
			}

			provided := strings.TrimSpace(r.Header.Get(adminTokenHeader))
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				if logg != nil {
					logg.Warn(ctx, "admin.token.rejected")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
