// Package shutdown provides graceful shutdown for lanbind's long-running
// commands.
//
// Only the watch command runs long enough to need it: on SIGINT or SIGTERM
// the config watcher is stopped through a registered hook.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return w.Stop() })
//	err := h.WaitContext(ctx)
package shutdown
