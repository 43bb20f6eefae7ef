// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/pdiddy/citelib/pkg/types"
)

func TestLoaderLoad(t *testing.T) {
	var l Loader
	ch, err := l.Load(`@article{a, title = {T}}`, types.FormatBibLaTeX)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	res := <-ch
	if res.Err != nil {
		t.Fatalf("result Err = %v", res.Err)
	}
	if res.Library == nil || res.Library.Size() != 1 {
		t.Fatalf("Library = %+v, want one entry", res.Library)
	}
	if l.Busy() {
		t.Error("loader still busy after result delivered")
	}
}

func TestLoaderRejectsConcurrentLoad(t *testing.T) {
	// A large malformed-free input still parses fast, so hold the
	// loader busy by hand instead of racing the goroutine.
	var l Loader
	l.mu.Lock()
	l.busy = true
	l.mu.Unlock()

	if _, err := l.Load("", types.FormatBibLaTeX); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}

	l.mu.Lock()
	l.busy = false
	l.mu.Unlock()

	ch, err := l.Load("", types.FormatBibLaTeX)
	if err != nil {
		t.Fatalf("Load after release: %v", err)
	}
	<-ch
}

func TestLoaderEmptyInputYieldsEmptyLibrary(t *testing.T) {
	var l Loader
	ch, err := l.Load("", types.FormatBibLaTeX)
	if err != nil {
		t.Fatal(err)
	}
	res := <-ch
	if res.Library == nil {
		t.Fatal("Library = nil, want empty library")
	}
	if res.Library.Size() != 0 {
		t.Errorf("Size = %d, want 0", res.Library.Size())
	}
}

func TestLoaderFatalBibLaTeXKeepsParsedEntries(t *testing.T) {
	var l Loader
	src := "@article{good, title = {Fine}}\n@article{broken, title = {never closed"
	ch, err := l.Load(src, types.FormatBibLaTeX)
	if err != nil {
		t.Fatal(err)
	}
	res := <-ch
	if res.Err == nil {
		t.Error("Err = nil, want fatal parse error recorded")
	}
	if res.Library == nil || res.Library.Size() != 1 {
		t.Fatalf("Library = %+v, want the one good entry", res.Library)
	}
	if _, ok := res.Library.Entry("good"); !ok {
		t.Error("entry parsed before the fatal error should survive")
	}
}

func TestLoaderFatalCSLYieldsNilLibrary(t *testing.T) {
	var l Loader
	ch, err := l.Load("{broken", types.FormatCSLJSON)
	if err != nil {
		t.Fatal(err)
	}
	res := <-ch
	if res.Err == nil {
		t.Error("Err = nil, want parse error")
	}
	if res.Library != nil {
		t.Errorf("Library = %+v, want nil", res.Library)
	}
}

func TestCellSwap(t *testing.T) {
	var c Cell
	if c.Get() != nil {
		t.Fatal("Get before Set should be nil")
	}
	lib := New(nil)
	c.Set(lib)
	if c.Get() != lib {
		t.Error("Get should return the swapped-in snapshot")
	}
}

func TestLoaderBusyDuringLoad(t *testing.T) {
	var l Loader
	ch, err := l.Load(`@article{a, title = {T}}`, types.FormatBibLaTeX)
	if err != nil {
		t.Fatal(err)
	}
	<-ch
	// Busy must settle back to false once the result is delivered.
	deadline := time.Now().Add(time.Second)
	for l.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("loader never became idle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNotifierSuppressesRepeats(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf, "library file not found")

	n.Show()
	n.Show()
	n.Show()
	if got := buf.String(); got != "library file not found\n" {
		t.Errorf("output = %q, want a single line", got)
	}
	if !n.Active() {
		t.Error("notifier should be active after Show")
	}

	n.Hide()
	if n.Active() {
		t.Error("notifier should be inactive after Hide")
	}
	n.Show()
	if got := buf.String(); got != "library file not found\nlibrary file not found\n" {
		t.Errorf("output = %q, want two lines after re-arm", got)
	}
}
