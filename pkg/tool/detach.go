package tool

import "go.uber.org/zap"

// Detach runs fn as a best-effort background task. The task is logically
// disconnected from the caller's success path: errors and panics are
// captured by the logger sink and never reach the caller.
func Detach(log *zap.SugaredLogger, name string, fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("background task panicked", "task", name, "panic", r)
			}
		}()
		if err := fn(); err != nil {
			log.Errorw("background task failed", "task", name, "err", err)
		}
	}()
}
