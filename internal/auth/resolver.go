package auth

import "os"

// TokenProvider attempts to provide a token.
// It returns an empty token when its source has nothing to offer.
type TokenProvider func() (token string, source TokenSource)

// Resolver tries token providers in priority order.
type Resolver struct {
	providers []TokenProvider
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// WithFlagValue adds an explicitly passed token (highest priority).
func (r *Resolver) WithFlagValue(value string) *Resolver {
	return r.WithProvider(func() (string, TokenSource) {
		return value, TokenSourceFlag
	})
}

// WithEnvs adds environment variables as token sources, checked in order.
func (r *Resolver) WithEnvs(envVars ...string) *Resolver {
	for _, envVar := range envVars {
		r.WithProvider(func() (string, TokenSource) {
			return os.Getenv(envVar), TokenSource(envVar)
		})
	}

	return r
}

// WithProvider adds a custom token provider
func (r *Resolver) WithProvider(provider TokenProvider) *Resolver {
	r.providers = append(r.providers, provider)
	return r
}

// Resolve returns the first non-empty token, or "" and TokenSourceNone.
func (r *Resolver) Resolve() (string, TokenSource) {
	for _, provider := range r.providers {
		if token, source := provider(); token != "" {
			return token, source
		}
	}

	return "", TokenSourceNone
}
