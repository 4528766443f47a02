package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/streamhive/account-service/internal/application/account"
	"github.com/streamhive/account-service/internal/domain"
	"github.com/streamhive/account-service/internal/infrastructure/security"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (account.TokenClaims, error)
}

// UserGetter resolves the token subject to an existing account.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth is the authentication gate: it accepts the access token from the
// accessToken cookie or an Authorization: Bearer header, verifies it,
// confirms the subject still exists, and injects the identity into the
// request context.
func Auth(verifier TokenVerifier, users UserGetter, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractAccessToken(r)
			if raw == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			// A signature-valid token for a deleted account is still invalid.
			u, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithUser(r.Context(), u.ID, u.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractAccessToken(r *http.Request) string {
	if tok, err := security.ReadAccessToken(r); err == nil && tok != "" {
		return tok
	}

	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
