package httpserver

import "time"

// ShutdownTimeout bounds the graceful drain on exit.
var ShutdownTimeout = 15 * time.Second
