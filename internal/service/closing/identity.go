package closing

import "context"

// Identity is a resolved login identity from the hosted auth provider.
type Identity struct {
	UserID string
	Email  string
}

// SessionIdentity abstracts "who is calling". Two variants exist: an
// authenticated session backed by the auth provider, and the anonymous
// shared-device session. The variant is chosen once per request, not
// re-derived at every step of the workflow.
type SessionIdentity interface {
	Resolve(ctx context.Context) (*Identity, error)
}

// IdentityProvider verifies an access token against the hosted auth API.
type IdentityProvider interface {
	ResolveIdentity(ctx context.Context, accessToken string) (*Identity, error)
}

// AuthenticatedSession resolves the caller through the auth provider.
type AuthenticatedSession struct {
	Provider IdentityProvider
	Token    string
}

// Resolve verifies the session token. A failed verification degrades to
// the anonymous path rather than blocking the submission: the shared
// device may hold a long-expired token.
func (s AuthenticatedSession) Resolve(ctx context.Context) (*Identity, error) {
	if s.Provider == nil || s.Token == "" {
		return nil, nil
	}
	id, err := s.Provider.ResolveIdentity(ctx, s.Token)
	if err != nil {
		return nil, nil
	}
	return id, nil
}

// AnonymousSession is the shared-device mode: no login identity exists and
// that is a valid, expected state.
type AnonymousSession struct{}

// Resolve always reports the absence of a login identity.
func (AnonymousSession) Resolve(context.Context) (*Identity, error) { return nil, nil }
