package httpx

import "context"

type ctxKey string

const CtxKeySubject ctxKey = "subject"

// WithSubject records the authenticated principal (user id or client id)
// for per-principal rate limiting and logging.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, CtxKeySubject, subject)
}

func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(CtxKeySubject).(string)
	return s
}
