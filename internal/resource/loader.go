// Package resource wraps the raw Redfish JSON types in pkg/redfish with
// planning-time views: predicate methods (matches-by-hint), summaries, and
// explicit, loader-driven refresh rather than a cyclic "resource holds a
// pointer back to its client" ownership. A view never stores a transport;
// every operation that needs fresh data takes a Loader argument, so a
// resource tree can be passed between goroutines (or cached) without
// dragging a live connection along with it.
package resource

import "context"

// Loader fetches a Redfish resource body by its @odata.id and decodes it
// into out, returning the ETag the server reported (empty if absent). It is
// implemented by internal/transport.Client.
type Loader interface {
	Get(ctx context.Context, odataID string, out interface{}) (etag string, err error)
}
