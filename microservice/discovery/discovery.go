// Package discovery defines interfaces for service discovery providers and
// instances. microservice/shard consumes both: a serviceResolver polls a
// Provider on an interval and feeds the resulting Instances into a
// consistent-hash Ring, and ExecutorResolver narrows that same lookup down
// to Instances that also satisfy future.Executor.
package discovery

import "context"

//go:generate mockgen -typed -package mock_$GOPACKAGE -source=$GOFILE -destination=mock_$GOPACKAGE/$GOFILE

type Instance interface {
	Identifier() string
}

type Provider interface {
	Discover(ctx context.Context, key string) ([]Instance, error)
}
