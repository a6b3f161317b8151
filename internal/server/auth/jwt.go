// Package auth implements the credential hasher, the bearer token
// issuer/validator and the authenticator that turns a token into a user.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 30 * time.Minute

// JWTManager issues and verifies HS256 access tokens. It holds no mutable
// state and is safe for concurrent use.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret []byte, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to tokens by Issue.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for subject with the configured TTL.
func (m *JWTManager) Issue(subject string) (string, error) {
	return m.IssueWithTTL(subject, m.ttl)
}

// IssueWithTTL signs a token carrying sub, iat and exp = iat + ttl.
func (m *JWTManager) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(m.secret)
}

// Verify returns the subject of a valid token. Failures are one of
// common.ErrTokenExpired, common.ErrTokenInvalidSignature or
// common.ErrTokenMalformed.
func (m *JWTManager) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", classify(err)
	}

	if claims.Subject == "" {
		return "", common.ErrTokenMalformed
	}
	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrTokenInvalidSignature
	default:
		return common.ErrTokenMalformed
	}
}
