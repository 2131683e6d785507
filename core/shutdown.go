package core

import "context"

// ShutdownFunc is the signature of cleanup handlers run during graceful
// shutdown. The context bounds how long the handler may take.
type ShutdownFunc func(ctx context.Context) error
