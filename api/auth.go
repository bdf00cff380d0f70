/*
auth.go - Client portal authentication

PURPOSE:
  The authentication collaborator: it validates credentials by reading the
  account store through the core's public surface (GetAccount) and never
  mutates anything. Successful logins get a short-lived JWT; a bearer
  middleware resolves the token back to an account for portal endpoints.

SECURITY NOTE:
  Passwords are stored and compared in the clear, matching the demo's data
  model where the admin UI displays the generated initial password. Do not
  carry this into anything real.

SEE ALSO:
  - handlers.go: Login/Me endpoints are registered alongside the others
  - server.go: route wiring
*/
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meridianbank/bankcore/ledger"
)

// LoginRequest authenticates by account number (or id) and password.
type LoginRequest struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

// LoginResponse carries the session token and the authenticated account.
type LoginResponse struct {
	Token   string     `json:"token"`
	Account AccountDTO `json:"account"`
}

type contextKey string

const accountKey contextKey = "account"

// Login validates credentials and issues a JWT.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.Bank.GetAccount(req.AccountNumber)
	if err != nil || account.Password != req.Password {
		// Same response for unknown account and wrong password.
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	if account.Status != ledger.AccountActive {
		writeError(w, http.StatusUnauthorized, "Account is inactive", nil)
		return
	}

	claims := jwt.RegisteredClaims{
		Subject:   string(account.ID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.TokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to sign token", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		Account: toAccountDTO(account),
	})
}

// Me returns the account behind the bearer token.
// GET /api/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := r.Context().Value(accountKey).(ledger.Account)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

// RequireAuth resolves the bearer token to an account and stores it on the
// request context. Rejects missing, malformed or expired tokens.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return h.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid token", err)
			return
		}

		account, err := h.Bank.GetAccount(claims.Subject)
		if err != nil {
			// Account deleted after the token was issued.
			writeError(w, http.StatusUnauthorized, "Account no longer exists", nil)
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
