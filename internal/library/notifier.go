// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"fmt"
	"io"
	"sync"
)

// Notifier surfaces a recurring user-facing condition exactly once.
// Repeated Show calls while the condition is active are suppressed, so
// a failing reload loop produces a single notification instead of a
// stack of identical ones. Hide re-arms the notifier.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	active  bool
}

// NewNotifier returns a notifier that writes message to w.
func NewNotifier(w io.Writer, message string) *Notifier {
	return &Notifier{w: w, message: message}
}

// Show emits the message unless it is already showing.
func (n *Notifier) Show() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active {
		return
	}
	n.active = true
	fmt.Fprintln(n.w, n.message)
}

// Hide clears the condition so the next Show emits again.
func (n *Notifier) Hide() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = false
}

// Active reports whether the notification is currently showing.
func (n *Notifier) Active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}
