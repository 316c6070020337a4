// Package event is an in-process, synchronous event dispatcher. Listeners run
// on the firing goroutine in registration order.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/eatn/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers handler for name.
func Listen(name string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], handler)
}

// Fire calls every listener of name. A panicking listener is logged and
// skipped; it never fails the operation that fired the event.
func Fire(ctx context.Context, name string, payload any) {
	mu.RLock()
	hs := append([]Handler(nil), handlers[name]...)
	mu.RUnlock()

	for _, h := range hs {
		call(ctx, name, h, payload)
	}
}

func call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", name, "error", fmt.Sprint(rec))
		}
	}()
	h(ctx, payload)
}

// Count returns the number of listeners registered for name.
func Count(name string) int {
	mu.RLock()
	defer mu.RUnlock()
	return len(handlers[name])
}

// Flush removes all listeners.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
