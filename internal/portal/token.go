package portal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token sources reported by LoadToken.
const (
	SourceEnv  = "environment (PORTAL_TOKEN)"
	SourceFile = "file"
)

var ErrEmptyToken = errors.New("token file is empty")

// LoadToken returns the bearer token and where it came from. A non-empty
// envToken wins; otherwise the trimmed content of file is used.
func LoadToken(file, envToken string) (token, source string, err error) {
	if t := strings.TrimSpace(envToken); t != "" {
		return t, SourceEnv, nil
	}
	if file == "" {
		return "", "", ErrNoToken
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", "", fmt.Errorf("read token: %w", err)
	}
	t := strings.TrimSpace(string(b))
	if t == "" {
		return "", "", fmt.Errorf("%w: %s", ErrEmptyToken, file)
	}
	return t, SourceFile + " " + file, nil
}

// TokenInfo is what can be read from a token without verifying it.
// Opaque (non-JWT) tokens yield a zero TokenInfo with JWT false.
type TokenInfo struct {
	JWT       bool
	Subject   string
	Issuer    string
	ExpiresAt time.Time // Zero when the token has no exp claim.
}

// InspectToken decodes the claims of a JWT bearer token. The signature is
// not checked; the portal does that. The result is only used to warn about
// expired tokens before a request fails.
func InspectToken(token string) TokenInfo {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}
	}
	info := TokenInfo{JWT: true, Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}

// Expired reports whether the token has an exp claim before now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(now)
}
