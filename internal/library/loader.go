// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pdiddy/citelib/internal/bib"
	"github.com/pdiddy/citelib/pkg/types"
)

// ErrBusy reports a load request while another load is in flight. The
// second request is rejected immediately rather than queued; callers
// that do not care (redundant file-watcher triggers) swallow it and
// retry later.
var ErrBusy = errors.New("library load already in progress")

// LoadResult is the one-shot message a load delivers on completion.
// Library is non-nil whenever any entries were parsed, even when Err
// records a fatal parse error; Err never aborts a BibLaTeX load.
type LoadResult struct {
	Library  *Library
	Warnings []string
	Err      error
}

// Loader parses raw export text into a Library off the caller's thread
// of control. At most one load runs at a time; there is no cancellation
// of an in-flight load.
type Loader struct {
	mu   sync.Mutex
	busy bool
}

// Load starts parsing raw in a background goroutine and returns a
// channel that delivers exactly one LoadResult. Returns ErrBusy when a
// previous load has not completed.
func (l *Loader) Load(raw string, format types.LibraryFormat) (<-chan LoadResult, error) {
	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return nil, ErrBusy
	}
	l.busy = true
	l.mu.Unlock()

	ch := make(chan LoadResult, 1)
	go func() {
		entries, warnings, err := bib.Load(raw, format)

		// BibLaTeX loads always yield a usable (possibly empty) entry
		// slice; only a fatal CSL-JSON failure leaves it nil.
		var lib *Library
		if entries != nil {
			lib = New(entries)
		}

		l.mu.Lock()
		l.busy = false
		l.mu.Unlock()

		ch <- LoadResult{Library: lib, Warnings: warnings, Err: err}
	}()
	return ch, nil
}

// Busy reports whether a load is currently in flight.
func (l *Loader) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// Cell is a single-writer, multi-reader snapshot holder for the current
// library. Readers take a local reference before use, so a concurrent
// swap cannot change semantics mid-operation.
type Cell struct {
	ptr atomic.Pointer[Library]
}

// Get returns the current snapshot, nil before the first load completes.
func (c *Cell) Get() *Library {
	return c.ptr.Load()
}

// Set swaps in a new snapshot.
func (c *Cell) Set(lib *Library) {
	c.ptr.Store(lib)
}
