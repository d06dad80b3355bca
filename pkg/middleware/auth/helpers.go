package auth

import "context"

type ctxKey int

const verifiedCtxKey ctxKey = iota

type verification struct {
	keyID string
}

// IsVerified reports whether the request carried a valid signature.
func (m *Middleware) IsVerified(ctx context.Context) bool {
	_, ok := ctx.Value(verifiedCtxKey).(verification)
	return ok
}

// KeyID returns the keyId of the verified signature, or "".
func (m *Middleware) KeyID(ctx context.Context) string {
	if v, ok := ctx.Value(verifiedCtxKey).(verification); ok {
		return v.keyID
	}
	return ""
}
