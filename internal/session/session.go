// Package session signs and verifies the JWT credentials issued after a
// successful GitHub OAuth login.
package session

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/metakgp/maintos/internal/domain"
)

// DefaultTTL is how long an issued credential stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// ErrBadSecret indicates the codec was constructed with an unusable secret.
var ErrBadSecret = errors.New("jwt secret must not be empty")

// Claims defines the JWT payload. The registered claim set carries only the
// expiration timestamp.
type Claims struct {
	Username string `json:"username"`
	jwtlib.RegisteredClaims
}

// Codec issues and verifies session credentials with a symmetric secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises codec construction.
type Option func(*Codec)

// WithTTL overrides the default credential lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests to issue expired tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a Codec. Fails when the secret cannot form a signing key.
func New(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrBadSecret
	}
	c := &Codec{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a credential carrying the username, expiring after the
// configured TTL.
func (c *Codec) Issue(username string) (domain.Session, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(c.now().Add(c.ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: signed, Username: username}, nil
}

// Verify checks signature and expiry and returns the embedded username.
// Every failure mode collapses to domain.ErrInvalidSession: callers cannot
// tell an expired token from a forged one.
func (c *Codec) Verify(token string) (string, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", domain.ErrInvalidSession
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Username == "" {
		return "", domain.ErrInvalidSession
	}
	return claims.Username, nil
}
