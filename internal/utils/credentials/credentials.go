// Package credentials issues and verifies the bearer tokens and API keys
// accepted by the HTTP API.
package credentials

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Issuer is stamped into every token this package issues.
const Issuer = "finance_tracker"

// ErrEmptySubject is returned when a token would carry no user ID.
var ErrEmptySubject = errors.New("token subject is empty")

// IssueToken signs an HS256 token for userID that expires after ttl.
func IssueToken(userID, secret string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", ErrEmptySubject
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies the signature and time claims of tokenString and
// returns its subject.
func ParseToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return "", ErrEmptySubject
	}
	return claims.Subject, nil
}

// NewAPIKey returns a random hex key of 2*n characters.
func NewAPIKey(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("key length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashAPIKey returns the bcrypt hash stored in API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckAPIKey reports whether key matches the bcrypt hash.
func CheckAPIKey(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
