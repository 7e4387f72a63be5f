// Package portal builds the signed links speakers follow to upload their
// materials, and the access-code helpers guarding the portal itself.
package portal

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims are embedded in every portal upload token
type Claims struct {
	EventID string `json:"event_id"`
	jwt.RegisteredClaims
}

// LinkBuilder produces signed speaker portal URLs
type LinkBuilder struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
}

// NewLinkBuilder creates a link builder. baseURL is the public portal
// origin without a trailing slash.
func NewLinkBuilder(baseURL, secret string, ttl time.Duration) *LinkBuilder {
	return &LinkBuilder{
		baseURL: baseURL,
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

// SpeakerPortalURL returns a signed upload link for the speaker, valid
// for the builder's TTL.
func (b *LinkBuilder) SpeakerPortalURL(eventSlug string, eventID, speakerID uuid.UUID, now time.Time) (string, error) {
	claims := Claims{
		EventID: eventID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   speakerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign portal token: %w", err)
	}

	return fmt.Sprintf("%s/portal/%s?token=%s", b.baseURL, eventSlug, url.QueryEscape(token)), nil
}

// ParseToken verifies a portal token and returns its claims
func (b *LinkBuilder) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return b.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid portal token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid portal token")
	}
	return claims, nil
}

// HashAccessCode hashes a portal access code for storage
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash access code: %w", err)
	}
	return string(hash), nil
}

// VerifyAccessCode checks a portal access code against its stored hash
func VerifyAccessCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
