// Package idalloc derives identifiers for locally created tasks.
package idalloc

import (
	"log"
	"os"
)

// Source exposes the store's max-id lookup.
type Source interface {
	NextID() (int64, error)
}

// Allocator hands out the next task id from the store's current maximum.
type Allocator struct {
	source Source
	logger *log.Logger
}

// New creates an Allocator. If logger is nil, a default logger writing to
// stderr is used.
func New(source Source, logger *log.Logger) *Allocator {
	if logger == nil {
		logger = log.New(os.Stderr, "[idalloc] ", log.LstdFlags)
	}
	return &Allocator{source: source, logger: logger}
}

// Next returns max stored id + 1, or 1 for an empty store.
//
// On a read failure it logs and falls back to 1. The fallback can collide
// with an existing id 1; that degraded mode is long-standing behavior and is
// kept as is rather than surfacing the error to the UI.
func (a *Allocator) Next() int64 {
	id, err := a.source.NextID()
	if err != nil {
		a.logger.Printf("next id: %v", err)
		return 1
	}
	return id
}
