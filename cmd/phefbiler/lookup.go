package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/phefbiler/internal/bibfile"
	"github.com/pdiddy/phefbiler/internal/lookup"
	"github.com/pdiddy/phefbiler/pkg/types"
)

var errNotFound = errors.New("no BibTeX record found")

var lookupCmd = &cobra.Command{
	Use:   "lookup <url>",
	Short: "Fetch the BibTeX record for a paper URL",
	Long: `Lookup resolves the DOI of the paper at the given URL and prints the
BibTeX record doi.org returns for it. arXiv abstract URLs are answered from
the arXiv API as @misc records.

With --normalize the record is rewritten the same way format rewrites a
file; with --yaml its fields are printed as YAML.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"attempts":      "lookup.max_attempts",
			"attempt-delay": "lookup.attempt_delay",
			"indent":        "lookup.indent",
			"mirror":        "lookup.mirror_base",
			"timeout":       "lookup.timeout",
			"max-authors":   "format.max_authors",
		})
	},
	RunE: runLookup,
}

func init() {
	def := types.DefaultConfig()

	lookupCmd.Flags().Int("attempts", def.Lookup.MaxAttempts, "rounds of DOI resolution before giving up")
	lookupCmd.Flags().Duration("attempt-delay", def.Lookup.AttemptDelay, "minimum spacing between resolution rounds")
	lookupCmd.Flags().Int("indent", def.Lookup.Indent, "field indentation for arXiv records")
	lookupCmd.Flags().String("mirror", def.Lookup.MirrorBase, "URL prefix of the mirror used to find DOIs")
	lookupCmd.Flags().Duration("timeout", def.Lookup.Timeout, "HTTP request timeout")
	lookupCmd.Flags().Int("max-authors", def.Format.MaxAuthors, "with --normalize, truncate longer author lists")
	lookupCmd.Flags().Bool("normalize", false, "rewrite the record in the normalized layout")
	lookupCmd.Flags().Bool("yaml", false, "print the record fields as YAML")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rec, ok, err := lookup.Get(cmd.Context(), args[0], cfg.Lookup.MaxAttempts, cfg.Lookup.Indent, lookup.ConfigOptions(cfg.Lookup)...)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", args[0], err)
	}
	if !ok {
		return fmt.Errorf("%w for %s", errNotFound, args[0])
	}

	normalize, _ := cmd.Flags().GetBool("normalize")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	out := cmd.OutOrStdout()

	if !normalize && !asYAML {
		fmt.Fprintln(out, rec)
		return nil
	}

	entries, err := bibfile.ParseEntries(strings.NewReader(rec))
	if err != nil {
		return err
	}
	if asYAML {
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(entries)
	}
	for _, e := range entries {
		fmt.Fprint(out, bibfile.FormatEntry(e, formatOptions(cfg.Format)))
	}
	return nil
}
