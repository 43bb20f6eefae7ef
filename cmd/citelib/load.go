// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Parse the library export and report its contents",
	Long: `Load parses the configured library export and prints a summary: the
number of entries, the detected format, and any recoverable parse
warnings. Use it to sanity-check an export before citing from it.`,
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := libraryConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := openLibrary(context.Background(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d entries from %s (%s)\n", lib.Size(), cfg.Path, cfg.Format)

	listKeys, _ := cmd.Flags().GetBool("keys")
	if listKeys {
		for _, k := range lib.Keys() {
			fmt.Fprintln(os.Stdout, k)
		}
	}
	return nil
}

func init() {
	loadCmd.Flags().Bool("keys", false, "list every citekey in library order")

	rootCmd.AddCommand(loadCmd)
}
