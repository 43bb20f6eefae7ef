// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citelib/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library as CSL-JSON or CSL-YAML",
	Long: `Export writes the library in CSL form to stdout or a file. The yaml
output suits pandoc bibliography front matter; json is standard
CSL-JSON.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := libraryConfig(cmd)
	if err != nil {
		return err
	}
	lib, err := openLibrary(context.Background(), cfg)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("to")
	return export.Write(lib, format, out)
}

func init() {
	exportCmd.Flags().String("to", "json", "export format: json or yaml")
	exportCmd.Flags().String("output", "", "write to file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}
