package health

import "context"

// ReadinessCheck is implemented by components that can report whether their
// backing dependency is reachable.
type ReadinessCheck interface {
	IsReady(ctx context.Context) error
	Name() string
}
