// Package auth keeps the bearer token used against the remote backend.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	credFileName = "credentials.json"
	// EnvToken overrides any saved token.
	EnvToken = "TODOSUM_TOKEN"

	SourceEnv  = "env"
	SourceFile = "file"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the JWT exp claim when present
}

// Expired reports whether the token carries an expiry in the past.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && now.After(*ti.ExpiresAt)
}

// Credentials reads and writes credentials.json inside dir.
type Credentials struct {
	dir string
}

func NewCredentials(dir string) *Credentials {
	return &Credentials{dir: dir}
}

func (c *Credentials) Path() string {
	return filepath.Join(c.dir, credFileName)
}

// Get returns the env token if set, else the saved one. It returns nil, nil
// when the user is not logged in.
func (c *Credentials) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		tok := stripBearer(env)
		return &TokenInfo{Token: tok, Source: SourceEnv, ExpiresAt: expiry(tok)}, nil
	}

	b, err := os.ReadFile(c.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// Set saves token with owner-only permissions. When expires is nil the JWT
// exp claim is used, if any.
func (c *Credentials) Set(token string, expires *time.Time) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if expires == nil {
		expires = expiry(token)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(c.Path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (c *Credentials) Delete() error {
	if err := os.Remove(c.Path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Claims decodes a JWT payload without verifying the signature. Only the
// backend can verify; this is for display.
func Claims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("not a JWT: %w", err)
	}
	return claims, nil
}

func expiry(token string) *time.Time {
	claims, err := Claims(token)
	if err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
