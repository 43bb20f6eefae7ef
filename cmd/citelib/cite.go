// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelib/internal/cite"
	"github.com/pdiddy/citelib/internal/library"
)

var citeCmd = &cobra.Command{
	Use:   "cite CITEKEY...",
	Short: "Render inline author-date citations",
	Long: `Cite renders a Chicago author-date citation cluster for the given
citekeys, e.g. "(Alexandrescu and Kirchhoff 2006)". Unknown citekeys
are an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCite,
}

func runCite(cmd *cobra.Command, args []string) error {
	svc, _, err := citationService(cmd)
	if err != nil {
		return err
	}

	out, _, err := svc.Cluster(args)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var bibCmd = &cobra.Command{
	Use:   "bib [CITEKEY...]",
	Short: "Render a formatted bibliography",
	Long: `Bib renders a Chicago author-date bibliography as HTML fragments for
the given citekeys, sorted by author, year, and title. With no
arguments the whole library is included.`,
	RunE: runBib,
}

func runBib(cmd *cobra.Command, args []string) error {
	svc, lib, err := citationService(cmd)
	if err != nil {
		return err
	}

	keys := args
	if len(keys) == 0 {
		keys = lib.Keys()
	}

	opts, entries, _, err := svc.Bibliography(keys)
	if err != nil {
		return err
	}

	fmt.Print(opts.BibStart + strings.Join(entries, "") + opts.BibEnd + "\n")
	return nil
}

// citationService loads the configured library into a snapshot cell and
// wires the citation engine over it.
func citationService(cmd *cobra.Command) (*cite.Service, *library.Library, error) {
	cfg, err := libraryConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	lib, err := openLibrary(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	var cell library.Cell
	cell.Set(lib)
	svc, err := cite.NewService(&cell)
	if err != nil {
		return nil, nil, err
	}
	return svc, lib, nil
}

func init() {
	rootCmd.AddCommand(citeCmd)
	rootCmd.AddCommand(bibCmd)
}
