// internal/httpserver/auth.go
//
// Admin authentication for the privileged endpoints (bind, reset).
// There are no user accounts here — players are opaque IDs supplied by the
// platform adapter — only a single operator password, stored as a bcrypt
// hash in ADMIN_PASSWORD_HASH. Login exchanges the password for a short
// HS256 JWT carrying role=admin.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type loginReq struct {
	Password string `json:"password"`
}

// handleLogin verifies the operator password and returns a signed token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	hash := getEnv("ADMIN_PASSWORD_HASH", "")
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
		http.Error(w, `{"error":"Invalid password"}`, http.StatusUnauthorized)
		return
	}
	tok, exp, err := signAdminJWT()
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"token": tok, "expiresAt": exp.Unix()})
}

// signAdminJWT creates an HS256 token valid for 12 hours.
func signAdminJWT() (string, time.Time, error) {
	exp := time.Now().Add(12 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(getEnv("JWT_SECRET", "dev_secret_change_me")))
	return ss, exp, err
}

// requireAdmin enforces a valid admin JWT on gated routes.
func (s *Server) requireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			if role, _ := claims["role"].(string); role != "admin" {
				http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
