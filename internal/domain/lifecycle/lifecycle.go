// Package lifecycle holds shared timeouts for start and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds lifecycle hook execution.
const DefaultTimeout = 10 * time.Second
