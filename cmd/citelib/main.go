// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citelib CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citelib/internal/bib"
	"github.com/pdiddy/citelib/internal/httputil"
	"github.com/pdiddy/citelib/internal/library"
	"github.com/pdiddy/citelib/internal/secrets"
	"github.com/pdiddy/citelib/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the citelib CLI.
var rootCmd = &cobra.Command{
	Use:   "citelib",
	Short: "Bibliography tooling over BibLaTeX and CSL-JSON exports",
	Long: `citelib reads a reference-manager export (BibLaTeX or CSL-JSON, local
file or http(s) URL), and renders Chicago author-date citations and
bibliographies, literature-note templates, and CSL exports from it.

Each operation is a subcommand: load, cite, bib, template, export,
index, and search. The library path and format come from flags, the
citelib.yaml config file, or CITELIB_* environment variables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citelib.yaml or ~/.config/citelib/config.yaml)")
	rootCmd.PersistentFlags().String("library", "", "path or http(s) URL of the reference library export")
	rootCmd.PersistentFlags().String("format", "", "library format: biblatex or csl-json (default: inferred from path)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citelib")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citelib"))
		}
	}

	viper.SetEnvPrefix("CITELIB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// libraryConfig resolves the library location from flags, falling back
// to the config file.
func libraryConfig(cmd *cobra.Command) (types.LibraryConfig, error) {
	path, _ := cmd.Flags().GetString("library")
	if path == "" {
		path = viper.GetString("library.path")
	}
	if path == "" {
		return types.LibraryConfig{}, fmt.Errorf("no library configured: pass --library or set library.path in citelib.yaml")
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = viper.GetString("library.format")
	}
	if format == "" {
		format = string(inferFormat(path))
	}

	timeout := viper.GetDuration("library.timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	userAgent := viper.GetString("library.user_agent")
	if userAgent == "" {
		userAgent = "citelib/" + version
	}

	return types.LibraryConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: userAgent},
		Path:       path,
		Format:     types.LibraryFormat(format),
	}, nil
}

// inferFormat guesses the export format from the path extension.
// Zotero and JabRef both write .bib for BibLaTeX; CSL-JSON exports end
// in .json.
func inferFormat(path string) types.LibraryFormat {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return types.FormatCSLJSON
	}
	return types.FormatBibLaTeX
}

// openLibrary reads the configured export, local or remote, and parses
// it. Parse warnings go to stderr; only a fatal parse error aborts.
func openLibrary(ctx context.Context, cfg types.LibraryConfig) (*library.Library, error) {
	var raw []byte
	var err error

	if httputil.IsRemote(cfg.Path) {
		client := &http.Client{Timeout: cfg.Timeout}
		apiKey := secretDefault(secrets.ZoteroAPIKey, viper.GetString("library.api_key"))
		raw, err = httputil.FetchExport(ctx, client, cfg.Path, apiKey, cfg.UserAgent)
	} else {
		raw, err = os.ReadFile(cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading library %s: %w", cfg.Path, err)
	}

	entries, warnings, err := bib.Load(string(raw), cfg.Format)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing library %s: %w", cfg.Path, err)
	}
	return library.New(entries), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
