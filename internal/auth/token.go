package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for well-formed tokens past their lifetime.
	ErrTokenExpired = errors.New("token expired")
)

const randomSecretBytes = 32

// Claims is what a verified token asserts.
type Claims struct {
	Email    string
	IssuedAt time.Time
}

// Issuer signs and verifies session tokens of the form
// base64("<email>:<epoch-millis>") + "." + base64url(HMAC-SHA256).
type Issuer struct {
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	ephemeral bool
}

// Option customizes an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer builds an issuer. An empty secret is replaced by random bytes,
// so tokens stop verifying when the process restarts; check Ephemeral.
func NewIssuer(secret string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	issuer := &Issuer{ttl: ttl, now: time.Now}
	if secret = strings.TrimSpace(secret); secret != "" {
		issuer.secret = []byte(secret)
	} else {
		buf := make([]byte, randomSecretBytes)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
		issuer.secret = buf
		issuer.ephemeral = true
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// Ephemeral reports whether the signing secret was generated for this process.
func (i *Issuer) Ephemeral() bool {
	return i.ephemeral
}

// Issue returns a signed token for email.
func (i *Issuer) Issue(email string) string {
	payload := fmt.Sprintf("%s:%d", email, i.now().UnixMilli())
	segment := base64.StdEncoding.EncodeToString([]byte(payload))
	return segment + "." + i.sign(segment)
}

// Verify checks the signature and lifetime of token.
func (i *Issuer) Verify(token string) (Claims, error) {
	segment, signature, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || segment == "" || signature == "" {
		return Claims{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(signature), []byte(i.sign(segment))) {
		return Claims{}, ErrInvalidToken
	}
	payload, err := base64.StdEncoding.DecodeString(segment)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	claims, err := ParsePayload(string(payload))
	if err != nil {
		return Claims{}, err
	}
	if i.ttl > 0 && i.now().Sub(claims.IssuedAt) > i.ttl {
		return claims, ErrTokenExpired
	}
	return claims, nil
}

// ParsePayload decodes the "<email>:<epoch-millis>" token payload.
func ParsePayload(payload string) (Claims, error) {
	idx := strings.LastIndex(payload, ":")
	if idx <= 0 {
		return Claims{}, ErrInvalidToken
	}
	millis, err := strconv.ParseInt(payload[idx+1:], 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return Claims{Email: payload[:idx], IssuedAt: time.UnixMilli(millis)}, nil
}

func (i *Issuer) sign(segment string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(segment))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
