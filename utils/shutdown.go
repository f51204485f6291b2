package utils

import "context"

// GracefulShutdown blocks until the context is cancelled (typically by an
// interrupt signal), runs the cleanup callback once, then confirms the
// cancellation. Intended to be launched as a goroutine alongside a run.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, cleanup func()) {
	<-ctx.Done()
	cleanup()
	cancel()
}
