// Package check provides the --check diagnostics: API URL, token source and
// claims, and whether the portal answers.
package check

import (
	"context"
	"errors"
	"time"

	"github.com/wara-ops/dataportal/internal/config"
	"github.com/wara-ops/dataportal/internal/portal"
)

// ErrCheckFailed is returned by RunCheck when any check fails.
var ErrCheckFailed = errors.New("system check failed")

// Logger is the subset of logging.Logger that RunCheck and WarnToken use.
// Tests pass a recording mock.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
	Debug(string, ...any)
}

// Pinger is a portal client that can reach GET /test.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunCheck reports the configured API, where the token comes from, what
// its claims say, and whether the portal answers with that token. All
// checks run; the result is ErrCheckFailed if any of them failed.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger, connect func(token string) Pinger, now time.Time) error {
	log.Info("=== System Check ===")
	log.Info("API: %s", cfg.APIURL)
	ok := true

	token, source, err := portal.LoadToken(cfg.TokenFile, cfg.Token)
	if err != nil {
		log.Error("Token: %v", err)
		log.Warn("Skipping connectivity check without a token")
		return ErrCheckFailed
	}
	log.Success("Token: %s", source)

	if !checkClaims(log, portal.InspectToken(token), now) {
		ok = false
	}

	if err := connect(token).Ping(ctx); err != nil {
		log.Error("Portal unreachable: %v", err)
		ok = false
	} else {
		log.Success("Portal answers at %s/test", cfg.APIURL)
	}

	if !ok {
		return ErrCheckFailed
	}
	return nil
}

// checkClaims logs what a JWT says about itself and reports false for an
// expired token. Opaque tokens pass.
func checkClaims(log Logger, ti portal.TokenInfo, now time.Time) bool {
	if !ti.JWT {
		log.Info("Token is opaque (not a JWT); expiry unknown")
		return true
	}
	if ti.Subject != "" {
		log.Info("Token subject: %s", ti.Subject)
	}
	if ti.Issuer != "" {
		log.Info("Token issuer: %s", ti.Issuer)
	}
	switch {
	case ti.ExpiresAt.IsZero():
		log.Info("Token has no expiry")
	case ti.Expired(now):
		log.Error("Token expired at %s", ti.ExpiresAt.UTC().Format(time.RFC3339))
		return false
	default:
		log.Success("Token valid until %s", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return true
}

// WarnToken is the pre-flight variant used before a regular action: it
// only warns, since the portal has the final say.
func WarnToken(log Logger, token string, now time.Time) {
	ti := portal.InspectToken(token)
	if !ti.JWT {
		return
	}
	log.Debug("Token subject %q, issuer %q", ti.Subject, ti.Issuer)
	if ti.Expired(now) {
		log.Warn("Token expired at %s; the portal will likely reject it",
			ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
}
