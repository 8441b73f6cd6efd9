package middleware

import (
	"context"

	"reservio/pkg/model"
)

const IdentityKey contextKey = "identity"

// WithIdentity attaches the authenticated caller to the context.
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFrom returns the authenticated caller placed in the context by the
// auth middleware, or nil when the request is anonymous.
func IdentityFrom(ctx context.Context) *model.Identity {
	if identity, ok := ctx.Value(IdentityKey).(*model.Identity); ok {
		return identity
	}
	return nil
}
