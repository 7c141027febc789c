package loaders

import "context"

// Loader is basic interface for loaders
type Loader interface {
	Load(ctx context.Context) (document []byte, err error)
}

var _ Loader = HTTP{}
