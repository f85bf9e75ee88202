package auth

import "context"

type subjectKey struct{}

// WithSubject records the authenticated user's id on the request context.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the user id set during token verification, or
// the empty string for an unauthenticated request.
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey{}).(string)
	return sub
}
