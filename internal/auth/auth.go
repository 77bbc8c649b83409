// Package auth implements the single-admin session scheme: one
// configured username, a bcrypt password hash, and signed JWT session
// tokens carried in a cookie.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator checks the admin credentials and issues session tokens.
type Authenticator struct {
	username     string
	passwordHash string
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func New(username, passwordHash, secret string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Authenticator{
		username:     username,
		passwordHash: passwordHash,
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

// TTL reports the session lifetime, for cookie expiry.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Login verifies the credentials and returns a signed session token.
// The same error comes back for a wrong username and a wrong password.
func (a *Authenticator) Login(username, password string) (string, error) {
	if username != a.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(a.now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(a.now()),
			Issuer:    "acadesk",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify validates a session token and returns its claims.
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username != a.username {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
