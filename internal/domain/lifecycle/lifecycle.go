// Package lifecycle holds shared timing constants for start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds how long a single start or stop hook may take.
const DefaultTimeout = 10 * time.Second
