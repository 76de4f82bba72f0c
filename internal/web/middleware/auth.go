package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/services/auth"
)

type contextKey string

const (
	accountContextKey contextKey = "account"
)

// TokenCookie is the cookie a browser may carry the bearer token in
const TokenCookie = "auth_token"

// GetAccount retrieves the authenticated account from the request context
// Returns nil if no account is authenticated
func GetAccount(ctx context.Context) *model.Account {
	account, _ := ctx.Value(accountContextKey).(*model.Account)
	return account
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it
// Sets the account in context if authenticated, nil otherwise
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := getAccountFromRequest(r, authService)
			ctx := context.WithValue(r.Context(), accountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getAccountFromRequest(r *http.Request, authService *auth.Service) *model.Account {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else if cookie, err := r.Cookie(TokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		return nil
	}

	account, err := authService.Authenticate(r.Context(), token)
	if err != nil {
		return nil
	}

	return account
}
