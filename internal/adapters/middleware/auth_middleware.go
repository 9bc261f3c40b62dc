package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
}

func NewAuthMiddleware(publicKey *rsa.PublicKey) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
	}
}

type contextKey string

const callerKey contextKey = "caller"

// CallerFromContext returns the authenticated user placed there by
// RequireRole. The bool is false on unauthenticated requests.
func CallerFromContext(ctx context.Context) (*domain.User, bool) {
	caller, ok := ctx.Value(callerKey).(*domain.User)
	return caller, ok
}

// RequireRole validates the bearer token and checks the caller's role
// against the allowed set. An empty set admits any authenticated user.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil {
			log.Printf("Token parse error: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			http.Error(w, "invalid token: missing user ID", http.StatusUnauthorized)
			return
		}

		roleClaim, ok := claims["role"].(string)
		if !ok || roleClaim == "" {
			http.Error(w, "invalid token: missing role", http.StatusUnauthorized)
			return
		}
		role := domain.Role(roleClaim)

		allowed := len(roles) == 0
		for _, r := range roles {
			if role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			log.Printf("Role mismatch: required one of %v, got %s", roles, role)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		matricule, _ := claims["matricule"].(string)
		caller := &domain.User{ID: userID, Role: role, Matricule: matricule}

		ctx := context.WithValue(r.Context(), callerKey, caller)
		next(w, r.WithContext(ctx))
	}
}
