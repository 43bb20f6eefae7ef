// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite wires the citation engine to the library: it resolves
// item-retrieval callbacks against a library snapshot and exposes
// citation-cluster and bibliography rendering for sets of citekeys.
package cite

import (
	"fmt"

	"github.com/pdiddy/citelib/internal/citeproc"
	"github.com/pdiddy/citelib/internal/library"
)

// Service renders citations and bibliographies for the library held in
// a snapshot cell. Each render captures the snapshot once at entry, so
// a reload swapping the cell mid-render cannot mix libraries.
type Service struct {
	engine *citeproc.Engine
	cell   *library.Cell
}

// NewService builds a service over cell using the bundled style. The
// locale bridge answers every language request with the embedded en-US
// document; other locales are not supported.
func NewService(cell *library.Cell) (*Service, error) {
	engine, err := citeproc.NewEngine(citeproc.ChicagoAuthorDate, func(lang string) []byte {
		return citeproc.LocaleEnUS
	})
	if err != nil {
		return nil, fmt.Errorf("initializing citation engine: %w", err)
	}
	return &Service{engine: engine, cell: cell}, nil
}

// retriever bridges the engine's synchronous item callback to one
// library snapshot.
type retriever struct {
	lib *library.Library
}

func (r retriever) RetrieveItem(id string) (citeproc.Item, error) {
	e, ok := r.lib.Entry(id)
	if !ok {
		return citeproc.Item{}, fmt.Errorf("%w: %q", library.ErrNotFound, id)
	}
	return e.CSLItem(), nil
}

// Citation renders one inline citation cluster for a single reference
// id, e.g. "(Alexandrescu and Kirchhoff 2006)". Before the first
// library load completes it returns ("", false): a normal transient
// state, not an error.
func (s *Service) Citation(id string) (string, bool, error) {
	return s.Cluster([]string{id})
}

// Cluster renders one citation cluster covering several reference ids,
// joined by the style's cite delimiter. Returns ok=false before the
// first library load completes.
func (s *Service) Cluster(ids []string) (string, bool, error) {
	lib := s.cell.Get()
	if lib == nil {
		return "", false, nil
	}
	out, err := s.engine.MakeCitationCluster(retriever{lib}, ids)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}

// Bibliography registers ids as the cited set and renders one formatted
// HTML fragment per entry, pre-sorted by the style's sort keys.
// Registration has an ordering side effect: subsequent disambiguation
// considers only the registered items. Returns ok=false before the
// first library load completes.
func (s *Service) Bibliography(ids []string) (citeproc.RenderOptions, []string, bool, error) {
	lib := s.cell.Get()
	if lib == nil {
		return citeproc.RenderOptions{}, nil, false, nil
	}
	src := retriever{lib}
	if err := s.engine.UpdateItems(src, ids); err != nil {
		return citeproc.RenderOptions{}, nil, true, err
	}
	opts, entries, err := s.engine.MakeBibliography()
	if err != nil {
		return citeproc.RenderOptions{}, nil, true, err
	}
	return opts, entries, true, nil
}
