// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"strings"
	"testing"

	"github.com/pdiddy/citelib/internal/bib"
	"github.com/pdiddy/citelib/internal/library"
	"github.com/pdiddy/citelib/pkg/types"
)

const sample = `@inproceedings{alexandrescuFactored2006,
  author = {Alexandrescu, Andrei and Kirchhoff, Katrin},
  title = {Factored neural language models},
  booktitle = {Proceedings of the Human Language Technology Conference},
  date = {2006},
}
@article{knuth1974,
  author = {Knuth, Donald E.},
  title = {Computer Programming as an Art},
  journaltitle = {Communications of the ACM},
  date = {1974},
}`

func loadedCell(t *testing.T) *library.Cell {
	t.Helper()
	entries, warnings, err := bib.Load(sample, types.FormatBibLaTeX)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	var cell library.Cell
	cell.Set(library.New(entries))
	return &cell
}

func TestCitationBeforeFirstLoad(t *testing.T) {
	var cell library.Cell
	svc, err := NewService(&cell)
	if err != nil {
		t.Fatal(err)
	}

	out, ok, err := svc.Citation("anything")
	if err != nil {
		t.Fatalf("err = %v, want nil for the not-yet-loaded state", err)
	}
	if ok || out != "" {
		t.Errorf("Citation = %q, %v; want empty and not ok", out, ok)
	}

	_, _, ok, err = svc.Bibliography([]string{"anything"})
	if err != nil || ok {
		t.Errorf("Bibliography before load: ok=%v err=%v", ok, err)
	}
}

func TestCitation(t *testing.T) {
	svc, err := NewService(loadedCell(t))
	if err != nil {
		t.Fatal(err)
	}

	out, ok, err := svc.Citation("alexandrescuFactored2006")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("ok = false with a loaded library")
	}
	if out != "(Alexandrescu and Kirchhoff 2006)" {
		t.Errorf("Citation = %q", out)
	}
}

func TestClusterMultipleKeys(t *testing.T) {
	svc, err := NewService(loadedCell(t))
	if err != nil {
		t.Fatal(err)
	}

	out, ok, err := svc.Cluster([]string{"alexandrescuFactored2006", "knuth1974"})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("ok = false")
	}
	if out != "(Alexandrescu and Kirchhoff 2006; Knuth 1974)" {
		t.Errorf("Cluster = %q", out)
	}
}

func TestCitationUnknownCitekey(t *testing.T) {
	svc, err := NewService(loadedCell(t))
	if err != nil {
		t.Fatal(err)
	}
	_, ok, err := svc.Citation("ghost")
	if !ok {
		t.Error("ok should be true: the library is loaded")
	}
	if err == nil {
		t.Fatal("expected error for unknown citekey")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("err = %v, should name the citekey", err)
	}
}

func TestBibliography(t *testing.T) {
	svc, err := NewService(loadedCell(t))
	if err != nil {
		t.Fatal(err)
	}

	opts, entries, ok, err := svc.Bibliography([]string{"knuth1974", "alexandrescuFactored2006"})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("ok = false")
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d", len(entries))
	}
	// Sorted by contributors, not request order.
	if opts.EntryIDs[0] != "alexandrescuFactored2006" || opts.EntryIDs[1] != "knuth1974" {
		t.Errorf("EntryIDs = %v", opts.EntryIDs)
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry, "  <div class=\"csl-entry\">") || !strings.HasSuffix(entry, "</div>\n") {
			t.Errorf("entry fragment %q missing csl-entry wrapper", entry)
		}
	}
}

func TestRenderUsesSnapshotAtCall(t *testing.T) {
	cell := loadedCell(t)
	svc, err := NewService(cell)
	if err != nil {
		t.Fatal(err)
	}

	// Swap in an empty library; subsequent renders must see the new
	// snapshot, not the one current at service construction.
	cell.Set(library.New(nil))
	_, ok, err := svc.Citation("knuth1974")
	if !ok {
		t.Fatal("ok = false")
	}
	if err == nil {
		t.Fatal("expected lookup failure against the swapped-in empty library")
	}
}
