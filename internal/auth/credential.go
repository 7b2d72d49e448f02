package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sanskaar/booking/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

// Credential is the bearer token attached to every authenticated call.
// It is passed explicitly at each call site; nothing reads it from ambient state.
type Credential struct {
	Token string
}

func NewCredential(token string) Credential {
	return Credential{Token: strings.TrimSpace(token)}
}

func (c Credential) IsZero() bool {
	return c.Token == ""
}

// Validate fails with domain.ErrUnauthenticated when the token is absent or,
// for JWT tokens, when its exp claim is in the past. Opaque tokens only need
// to be present. The signature is not checked here; the API does that.
func (c Credential) Validate(now time.Time) error {
	if c.IsZero() {
		return fmt.Errorf("%w: no access token", domain.ErrUnauthenticated)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return nil
	}

	if claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(now) {
		return fmt.Errorf("%w: access token expired at %s", domain.ErrUnauthenticated,
			claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return nil
}

// Resolve picks the credential for this run: an explicit token wins,
// otherwise the token stored for profile is used.
func Resolve(ctx context.Context, token, profile string, store TokenStore) (Credential, error) {
	if cred := NewCredential(token); !cred.IsZero() {
		return cred, nil
	}

	if store == nil {
		return Credential{}, fmt.Errorf("%w: no token configured", domain.ErrUnauthenticated)
	}

	tokens, err := store.Load(ctx, profile)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Credential{}, fmt.Errorf("%w: no stored login for profile %q", domain.ErrUnauthenticated, profile)
		}
		return Credential{}, err
	}

	log.Debugf("Using stored token for profile %s", profile)
	return NewCredential(tokens.AccessToken), nil
}
