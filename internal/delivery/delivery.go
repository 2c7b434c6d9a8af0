// Package delivery defines the contract every transport server fulfills.
package delivery

import "context"

// Delivery is a long-running transport server (HTTP API, worker).
type Delivery interface {
	Serve(ctx context.Context) error
}
