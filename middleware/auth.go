package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/services"
	"github.com/golang-jwt/jwt/v4"
)

// Имена JWT claims
const (
	ClaimSubject = "sub"
	ClaimEmail   = "email"
	ClaimName    = "name"
	ClaimExpires = "exp"
	ClaimIssued  = "iat"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// SessionBinder resolves a verified token subject into a league profile.
type SessionBinder interface {
	Bind(ctx context.Context, subject services.Subject) (*models.User, error)
}

// Authenticate verifies the HS256 token from the Authorization header (or
// the "token" query parameter, used by WebSocket clients), binds the
// session and stores the profile in the request context.
func Authenticate(jwtSecret string, sessions SessionBinder, logger *slog.Logger) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromRequest(r)
			if err != nil {
				unauthorized(w, err)
				return
			}
			subject, err := ParseToken(secret, raw)
			if err != nil {
				logger.Debug("token rejected", slog.Any("error", err))
				unauthorized(w, ErrInvalidToken)
				return
			}

			user, err := sessions.Bind(r.Context(), subject)
			if err != nil {
				logger.Error("failed to bind session",
					slog.Int("user_id", subject.ID),
					slog.Any("error", err))
				http.Error(w, `{"error":"failed to load profile"}`, http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", ErrMissingToken
		}
		return strings.TrimSpace(token), nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", ErrMissingToken
}

// ParseToken verifies signature, algorithm and expiry and extracts the subject.
func ParseToken(secret []byte, raw string) (services.Subject, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return services.Subject{}, err
	}

	sub, _ := claims[ClaimSubject].(string)
	id, err := strconv.Atoi(sub)
	if err != nil || id <= 0 {
		return services.Subject{}, fmt.Errorf("invalid %q claim: %q", ClaimSubject, sub)
	}
	email, _ := claims[ClaimEmail].(string)
	name, _ := claims[ClaimName].(string)
	return services.Subject{ID: id, Email: email, DisplayName: name}, nil
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q}`, err.Error())
}
