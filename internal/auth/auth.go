// internal/auth/auth.go
//
// Anonymous player identity.
// Responsibilities:
//   - Issuing HS256 JWTs whose "sub" is a random player ID.
//   - Parsing tokens from an Authorization: Bearer header or the auth cookie.
//   - Middleware that guarantees every request carries a player ID, minting a
//     fresh identity (and cookie) when the presented token is missing/invalid.
//
// There are no accounts or passwords; a player is whoever holds the token.

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
)

// CookieName is the cookie carrying the player token.
const CookieName = "spellcast_token"

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("auth: invalid token")

// Issuer signs and verifies player tokens.
type Issuer struct {
	secret []byte
	expiry time.Duration
	secure bool
}

// NewIssuer returns an Issuer. secure marks cookies Secure/SameSite=None, as
// needed when the client is served from another origin over HTTPS.
func NewIssuer(secret string, expiry time.Duration, secure bool) *Issuer {
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	if expiry <= 0 {
		expiry = 14 * 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), expiry: expiry, secure: secure}
}

// Issue signs a token for playerID.
func (i *Issuer) Issue(playerID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(i.expiry)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return ss, exp, nil
}

// Parse verifies tok and returns its player ID.
func (i *Issuer) Parse(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// SetCookie writes the token cookie.
func (i *Issuer) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if i.secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// TokenFrom extracts a bearer token from the Authorization header or cookie.
func TokenFrom(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

type ctxPlayerKey struct{}

// WithPlayer returns ctx carrying playerID.
func WithPlayer(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, ctxPlayerKey{}, playerID)
}

// PlayerID returns the player attached by Middleware, or "".
func PlayerID(ctx context.Context) string {
	id, _ := ctx.Value(ctxPlayerKey{}).(string)
	return id
}

// Middleware attaches the caller's player ID to the request context. Requests
// without a valid token get a new identity; the token is returned both as a
// cookie and in the X-Player-Token header for non-browser clients.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := TokenFrom(r); tok != "" {
			if id, err := i.Parse(tok); err == nil {
				next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), id)))
				return
			}
		}
		id := NewID()
		tok, exp, err := i.Issue(id)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("issue player token")
			http.Error(w, `{"error":"token_failed"}`, http.StatusInternalServerError)
			return
		}
		i.SetCookie(w, tok, exp)
		w.Header().Set("X-Player-Token", tok)
		hlog.FromRequest(r).Debug().Str("player", id).Msg("new player")
		next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), id)))
	})
}

// NewID creates a 22-char URL-safe, crypto-random identifier (no padding).
func NewID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
