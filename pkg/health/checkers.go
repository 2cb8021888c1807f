package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when more than limit goroutines are running.
func GoroutineCountCheck(limit int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("%d goroutines, limit %d", n, limit)
		}
		return nil
	}
}

// HeapCheck fails when the live heap exceeds limit bytes.
func HeapCheck(limit uint64) CheckFunc {
	return func(context.Context) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		if ms.HeapAlloc > limit {
			return errors.Errorf("heap %d bytes, limit %d", ms.HeapAlloc, limit)
		}
		return nil
	}
}
