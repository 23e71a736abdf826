// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/phefbiler/pkg/types"
)

const smithRecord = `@article{smith2020,
  title = {Deep Learning},
  author = {J.R. Smith and A. Jones},
  year = {2020}
}
`

const smithFormatted = "@article{smith2020,\n" +
	"    title=\"{Deep Learning}\",\n" +
	"    author={J. R. Smith and others},\n" +
	"    year={2020},\n" +
	"}\n\n"

// execute runs the root command with args after resetting every flag, since
// cobra keeps flag values between executions of the same command tree.
func execute(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestFormatString(t *testing.T) {
	out, err := execute(t, "format", "--string", smithRecord, "--indent", "4", "--max-authors", "1")
	require.NoError(t, err)
	assert.Equal(t, smithFormatted, out)
}

func TestFormatFileToOut(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "refs.bib")
	dst := filepath.Join(dir, "clean.bib")
	require.NoError(t, os.WriteFile(src, []byte(smithRecord), 0o644))

	out, err := execute(t, "format", src, "--out", dst, "--indent", "4", "--max-authors", "1")
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, smithFormatted, string(got))
}

func TestFormatNeedsExactlyOneSource(t *testing.T) {
	_, err := execute(t, "format")
	assert.Error(t, err)

	_, err = execute(t, "format", "refs.bib", "--string", smithRecord)
	assert.Error(t, err)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := execute(t, "lookup", srv.URL+"/paper",
		"--mirror", srv.URL+"/mirror/",
		"--attempts", "1",
		"--attempt-delay", "0")
	assert.ErrorIs(t, err, errNotFound)
}

func TestConfigPrintsDefaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)

	var cfg types.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, types.DefaultConfig().Format, cfg.Format)
	assert.Equal(t, types.DefaultConfig().Lookup.MirrorBase, cfg.Lookup.MirrorBase)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "phefbiler dev\n", out)
}
