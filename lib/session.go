package lib

import (
	"catalogo_server/structs"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the token payload handed out by the session issuer
type SessionClaims struct {
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Squads []string `json:"squads"`
	jwt.RegisteredClaims
}

// SignSession mints an HS256 token for the session. Only operator tooling and
// tests issue tokens; the admin API never does.
func SignSession(session *structs.Session, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email:  session.Email,
		Role:   session.Role,
		Squads: session.Squads,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSession parses and validates a session token and returns the session it carries
func ParseSession(tokenStr string, secret string) (*structs.Session, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing sub or role claim", ErrInvalidToken)
	}

	session := &structs.Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		Squads: claims.Squads,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// ExtractSession reads the session token from the cookie, falling back to a
// Bearer Authorization header
func ExtractSession(r *http.Request, cookieName, secret string) (*structs.Session, error) {
	tokenStr, err := GetCookieValue(cookieName, r)
	if err != nil || tokenStr == "" {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return nil, ErrNoSession
		}
		tokenStr = strings.TrimPrefix(header, "Bearer ")
	}
	return ParseSession(tokenStr, secret)
}
