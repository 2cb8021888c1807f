package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/internal/domain/auth"
	"github.com/xenking/handmade-storefront/internal/wire"
)

type claimsKey struct{}

// ClaimsFromContext returns the admin claims stored by requireAdmin.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	creds, err := wire.DecodeCredentials(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, exp, err := h.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { wire.EncodeToken(e, token, exp) })
}

// requireAdmin accepts "Authorization: Bearer <jwt>" tokens carrying the admin role.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "Access token required")
			return
		}
		claims, err := h.tokens.Validate(token)
		if err != nil {
			zctx.From(r.Context()).Debug("Reject token", zap.Error(err))
			writeMessage(w, http.StatusForbidden, "Invalid token")
			return
		}
		if claims.Role != auth.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Admin access required")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		zctx.From(ctx).Debug("Admin request", zap.String("username", claims.Username))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
