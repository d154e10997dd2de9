package health

import "context"

// Pinger is the document store probe. A failing ping makes the service Unhealthy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexProber answers whether a named index is present.
type IndexProber interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Prober is any optional dependency with a liveness call, such as the
// embedding provider.
type Prober interface {
	HealthCheck(ctx context.Context) error
}
