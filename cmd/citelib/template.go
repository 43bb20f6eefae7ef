// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citelib/internal/template"
	"github.com/pdiddy/citelib/pkg/types"
)

var templateCmd = &cobra.Command{
	Use:   "template CITEKEY",
	Short: "Render a literature-note template for an entry",
	Long: `Template renders one of the configured note templates against a
library entry. Templates use {{name}} variables drawn from the entry
(citekey, title, authorString, year, DOI, ...); an unknown variable
renders as "(Unknown template variable name)" instead of failing.

Named templates: note-title, note-content, markdown-citation, and
alt-markdown-citation. Override them under templates: in citelib.yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplate,
}

func runTemplate(cmd *cobra.Command, args []string) error {
	cfg, err := libraryConfig(cmd)
	if err != nil {
		return err
	}
	lib, err := openLibrary(context.Background(), cfg)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	t := template.New(lib, templateSet())
	out, err := t.Format(args[0], name)
	if err != nil {
		return err
	}
	fmt.Print(out)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

// templateSet merges config-file overrides onto the default templates
// and returns them under their command-line names.
func templateSet() map[string]string {
	defaults := types.DefaultTemplates()
	pick := func(key, fallback string) string {
		if v := viper.GetString(key); v != "" {
			return v
		}
		return fallback
	}
	return map[string]string{
		"note-title":            pick("templates.note_title", defaults.NoteTitle),
		"note-content":          pick("templates.note_content", defaults.NoteContent),
		"markdown-citation":     pick("templates.markdown_citation", defaults.MarkdownCitation),
		"alt-markdown-citation": pick("templates.alternative_markdown_citation", defaults.AlternativeMarkdownCitation),
	}
}

func init() {
	templateCmd.Flags().String("name", "note-content", "template to render: note-title, note-content, markdown-citation, or alt-markdown-citation")

	rootCmd.AddCommand(templateCmd)
}
