package providers

import (
	"fmt"
	"livepoll/internal/structures"
	"net/http"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	VoterTokenHeader = "X-Voter-Token"
	// 24 symbols from a 64-symbol alphabet: 144 bits.
	voterIDLength  = 24
	maxVoterIDSize = 128
)

type IdentityProviderInterface interface {
	Resolve(existing string) (string, bool, error)
	FromRequest(w http.ResponseWriter, r *http.Request) (string, error)
}

// IdentityProvider issues opaque per-browser voter ids. A presented id is a
// lookup key only and is never parsed.
type IdentityProvider struct {
	cookieName string
	maxAge     int
	generate   func() (string, error)
}

func NewIdentityProvider(conf *structures.Config) IdentityProviderInterface {
	name := conf.Voter.CookieName
	if name == "" {
		name = defaultCookieName
	}
	maxAge := conf.Voter.CookieMaxAge
	if maxAge <= 0 {
		maxAge = defaultCookieMaxAge
	}
	return &IdentityProvider{
		cookieName: name,
		maxAge:     maxAge,
		generate: func() (string, error) {
			return gonanoid.New(voterIDLength)
		},
	}
}

// Resolve reuses a plausible existing id or mints a new one. The bool
// reports whether the id was minted and must be persisted by the caller.
func (ip *IdentityProvider) Resolve(existing string) (string, bool, error) {
	existing = strings.TrimSpace(existing)
	if existing != "" && len(existing) <= maxVoterIDSize {
		return existing, false, nil
	}
	id, err := ip.generate()
	if err != nil {
		return "", false, fmt.Errorf("mint voter id: %w", err)
	}
	return id, true, nil
}

// FromRequest resolves the voter from the cookie or the token header and, for
// a fresh id, sets a durable cookie. The id is echoed in the token header.
func (ip *IdentityProvider) FromRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	presented := r.Header.Get(VoterTokenHeader)
	if c, err := r.Cookie(ip.cookieName); err == nil && c.Value != "" {
		presented = c.Value
	}

	id, minted, err := ip.Resolve(presented)
	if err != nil {
		return "", err
	}
	if minted {
		http.SetCookie(w, &http.Cookie{
			Name:     ip.cookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   ip.maxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(VoterTokenHeader, id)
	return id, nil
}
