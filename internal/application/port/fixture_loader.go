package port

import "context"

// FixtureLoader reads a static JSON snapshot (local path or object storage URL) into dest.
type FixtureLoader interface {
	LoadFixture(ctx context.Context, location string, dest interface{}) error
}
