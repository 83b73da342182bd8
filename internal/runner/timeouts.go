package runner

import "time"

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
