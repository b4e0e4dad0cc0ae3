package csrf

import "context"

type ctxKey struct{}

// requestToken is the token in force for a request: the one minted into
// the response, or the header token when none was minted.
type requestToken struct {
	value  string
	issued bool
}

func contextWithToken(ctx context.Context, tok string, issued bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestToken{value: tok, issued: issued})
}

// TokenFromContext returns the request's token, if the middleware ran.
//
// Returns:
// - token (string) and a boolean indicating whether a token was found.
func TokenFromContext(ctx context.Context) (string, bool) {
	rt, ok := ctx.Value(ctxKey{}).(requestToken)
	if !ok || rt.value == "" {
		return "", false
	}
	return rt.value, true
}

// TokenIssued reports whether the middleware minted a new token into
// the current response cookie.
func TokenIssued(ctx context.Context) bool {
	rt, _ := ctx.Value(ctxKey{}).(requestToken)
	return rt.issued
}
