package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"overtime-approval/handlers/response"
	"overtime-approval/models"
	"overtime-approval/services"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const ProfileContextKey contextKey = "profile"

const CookieName = "token"

type Claims struct {
	NIK string `json:"nik"`
	jwt.RegisteredClaims
}

// ProfileResolver loads the current profile for the NIK carried by a token.
type ProfileResolver interface {
	Resolve(ctx context.Context, nik string) (*models.Profile, error)
}

type Session struct {
	secret     []byte
	expiration time.Duration
	secure     bool
	profiles   ProfileResolver
}

func NewSession(secret string, expiration time.Duration, secure bool, profiles ProfileResolver) *Session {
	return &Session{
		secret:     []byte(secret),
		expiration: expiration,
		secure:     secure,
		profiles:   profiles,
	}
}

func (s *Session) GenerateToken(profile *models.Profile) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		NIK: profile.NIK,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.NIK,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	return signed, expiresAt, err
}

func (s *Session) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.NIK != "" {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

func (s *Session) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Session) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticate reads the token from the cookie or a Bearer header and loads
// the profile on every request, so role edits apply immediately.
func (s *Session) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			response.Unauthorized(w, "Authentication required")
			return
		}

		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			s.ClearCookie(w)
			response.Unauthorized(w, "Invalid or expired session")
			return
		}

		profile, err := s.profiles.Resolve(r.Context(), claims.NIK)
		if err != nil {
			if errors.Is(err, services.ErrProfileNotFound) {
				s.ClearCookie(w)
				response.Unauthorized(w, "Session profile no longer exists")
				return
			}
			slog.Error("Session profile lookup error", "nik", claims.NIK, "error", err)
			response.InternalServerError(w, "An unexpected error occurred")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
	})
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireRole admits profiles acting as any of roles. Admin and manager app
// roles count.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := GetProfileFromContext(r.Context())
			if profile == nil {
				response.Unauthorized(w, "Authentication required")
				return
			}

			for _, role := range roles {
				if profile.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You do not have access to this resource")
		})
	}
}

func WithProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, ProfileContextKey, profile)
}

func GetProfileFromContext(ctx context.Context) *models.Profile {
	profile, ok := ctx.Value(ProfileContextKey).(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}
