package security

import "context"

type learnerKey struct{}

// WithLearner returns a context carrying the learner ID
func WithLearner(ctx context.Context, learnerID string) context.Context {
	return context.WithValue(ctx, learnerKey{}, learnerID)
}

// LearnerFromContext retrieves the learner ID set by WithLearner
func LearnerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(learnerKey{}).(string)
	return id, ok && id != ""
}
