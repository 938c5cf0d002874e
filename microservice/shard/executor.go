package discovery

import (
	"context"

	"github.com/saltfishpr/futures/future"
	"github.com/saltfishpr/futures/microservice/discovery"
)

// ExecutorInstance is a discovery.Instance that can also be submitted to
// as a future.Executor, letting a consistent-hash ring double as an
// executor router: tasks for the same key always land on the same
// instance's Executor as long as the ring membership doesn't change.
type ExecutorInstance interface {
	discovery.Instance
	future.Executor
}

// ExecutorResolver wraps a ServiceResolver so callers can pick a
// future.Executor by key instead of a bare discovery.Instance, wiring
// consistent hashing directly into future's executor-routing contract.
type ExecutorResolver struct {
	resolver ServiceResolver
}

// NewExecutorResolver builds an ExecutorResolver over an existing
// ServiceResolver, typically one built by NewServiceResolver whose
// discovered instances all implement ExecutorInstance.
func NewExecutorResolver(resolver ServiceResolver) *ExecutorResolver {
	return &ExecutorResolver{resolver: resolver}
}

// Pick resolves key to the future.Executor hosted by the consistent-hash
// ring's chosen instance.
func (r *ExecutorResolver) Pick(ctx context.Context, key string) (future.Executor, error) {
	instance, err := r.resolver.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	exec, ok := instance.(ExecutorInstance)
	if !ok {
		return nil, ErrNoInstanceFound
	}
	return exec, nil
}
