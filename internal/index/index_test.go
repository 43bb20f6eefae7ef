// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pdiddy/citelib/internal/bib"
	"github.com/pdiddy/citelib/internal/library"
	"github.com/pdiddy/citelib/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.IndexConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func indexLibrary() *library.Library {
	return library.New([]*bib.Entry{
		{
			ID:             "alexandrescuFactored2006",
			Type:           "paper-conference",
			Title:          "Factored neural language models",
			ContainerTitle: "Proceedings of HLT-NAACL",
			Authors:        []bib.Author{{Given: "Andrei", Family: "Alexandrescu"}},
			Abstract:       "Language modeling with factored representations.",
		},
		{
			ID:      "knuth1974",
			Type:    "article-journal",
			Title:   "Computer Programming as an Art",
			Authors: []bib.Author{{Given: "Donald E.", Family: "Knuth"}},
		},
	})
}

func TestRebuildAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Rebuild(ctx, indexLibrary())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n != 2 {
		t.Errorf("Rebuild = %d, want 2", n)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestRebuildReplacesPreviousIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Rebuild(ctx, indexLibrary()); err != nil {
		t.Fatal(err)
	}
	smaller := library.New([]*bib.Entry{{ID: "only", Title: "Only One"}})
	if _, err := s.Rebuild(ctx, smaller); err != nil {
		t.Fatal(err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1 after rebuild", count)
	}
	if _, err := s.Lookup(ctx, "knuth1974"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("Lookup(knuth1974) err = %v, want ErrNotFound", err)
	}
}

func TestSearchByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Rebuild(ctx, indexLibrary()); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, "factored language", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (%+v)", len(results), results)
	}
	if results[0].CiteKey != "alexandrescuFactored2006" {
		t.Errorf("CiteKey = %q", results[0].CiteKey)
	}
}

func TestSearchByAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Rebuild(ctx, indexLibrary()); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, "Knuth", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].CiteKey != "knuth1974" {
		t.Errorf("results = %+v", results)
	}
}

func TestSearchNoMatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Rebuild(ctx, indexLibrary()); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, "zzzznothing", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Search(context.Background(), "   ", 0); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchQuoteSafety(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Rebuild(ctx, indexLibrary()); err != nil {
		t.Fatal(err)
	}

	// Raw FTS operators and quotes must not break the query.
	if _, err := s.Search(ctx, `"art" AND NEAR(x)`, 0); err != nil {
		t.Fatalf("Search with operator text: %v", err)
	}
}

func TestLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Rebuild(ctx, indexLibrary()); err != nil {
		t.Fatal(err)
	}

	r, err := s.Lookup(ctx, "knuth1974")
	if err != nil {
		t.Fatal(err)
	}
	if r.Title != "Computer Programming as an Art" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Authors != "Donald E. Knuth" {
		t.Errorf("Authors = %q", r.Authors)
	}
}
