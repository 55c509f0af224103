package accounts

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the library depends on. Hosts plug in
// their own implementation through the WithLogger builders.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Store is the persistence capability shared by every component. Values are
// whole JSON documents keyed by collection name; a write always replaces the
// entire collection, so one collection is the unit of atomicity.
//
// Get returns (nil, nil) for a collection that was never written.
type Store interface {
	Get(ctx context.Context, collection string) ([]byte, error)
	Set(ctx context.Context, collection string, value []byte) error
	Delete(ctx context.Context, collection string) error
}

// Logical collection keys. All components share one Store instance.
const (
	CollectionAccounts    = "accounts"
	CollectionCredentials = "credentials"
	CollectionSession     = "session"
	CollectionDemoUsage   = "demo-usage"
)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
