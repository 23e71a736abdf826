// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the phefbiler CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/phefbiler/internal/bibfile"
	"github.com/pdiddy/phefbiler/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the phefbiler CLI.
var rootCmd = &cobra.Command{
	Use:   "phefbiler",
	Short: "Fetch and tidy BibTeX records for scholarly papers",
	Long: `phefbiler turns the URL of a paper into a BibTeX record and rewrites
BibTeX files into a consistent layout.

lookup finds the paper's DOI (in the URL, on a mirror page, or on the page
itself) and asks doi.org for its BibTeX; arXiv URLs are answered from the
arXiv API. format normalizes titles, author initials, field order, and
quoting across a whole .bib file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./phefbiler.yaml or ~/.config/phefbiler/phefbiler.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log failed lookup steps")
}

func initConfig() {
	setDefaults(types.DefaultConfig())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("phefbiler")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "phefbiler"))
		}
	}

	viper.SetEnvPrefix("PHEFBILER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables can
// override keys that appear in no config file.
func setDefaults(cfg types.Config) {
	viper.SetDefault("lookup.timeout", cfg.Lookup.Timeout)
	viper.SetDefault("lookup.user_agent", cfg.Lookup.UserAgent)
	viper.SetDefault("lookup.max_retries", cfg.Lookup.MaxRetries)
	viper.SetDefault("lookup.max_attempts", cfg.Lookup.MaxAttempts)
	viper.SetDefault("lookup.attempt_delay", cfg.Lookup.AttemptDelay)
	viper.SetDefault("lookup.mirror_base", cfg.Lookup.MirrorBase)
	viper.SetDefault("lookup.indent", cfg.Lookup.Indent)
	viper.SetDefault("format.indent", cfg.Format.Indent)
	viper.SetDefault("format.max_authors", cfg.Format.MaxAuthors)
}

// loadConfig merges defaults, config file, environment, and bound flags.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// bindFlags binds command flags to config keys. It runs in PreRunE so that
// only the executing command's flags are bound.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

func formatOptions(cfg types.FormatConfig) bibfile.FormatOptions {
	return bibfile.FormatOptions{
		Indent:     cfg.Indent,
		MaxAuthors: cfg.MaxAuthors,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
