package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/go-flyniki-flights/internal/config"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func IssueToken(cfg *config.Config, username string, now time.Time) (string, time.Time, error) {
	exp := now.Add(cfg.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    "flights",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(cfg.JWTSecret))
	return signed, exp, err
}

// VerifyToken checks the signature and expiry of tok and returns its subject.
func VerifyToken(cfg *config.Config, tok string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("flights"))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// JWTMiddleware serves /auth/ from public and everything else from protected
// once a bearer token verifies. Browsers opening an EventSource or WebSocket
// cannot set headers, so ?token= is accepted as well.
func JWTMiddleware(public, protected http.Handler, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/auth/") {
			public.ServeHTTP(w, r)
			return
		}
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			tok = r.URL.Query().Get("token")
		}
		if tok == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		sub, err := VerifyToken(cfg, tok)
		if err != nil {
			slog.Warn("JWT rejected", "path", r.URL.Path, "err", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		slog.Debug("JWT accepted", "sub", sub, "path", r.URL.Path)
		protected.ServeHTTP(w, r)
	})
}

func LoginHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Username != cfg.JWTUser || req.Password != cfg.JWTPassword {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, exp, err := IssueToken(cfg, req.Username, time.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{Token: tok, ExpiresAt: exp})
	}
}
