// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrSourceContract reports a Load call that did not name exactly one source.
var ErrSourceContract = errors.New("specify exactly one of a file path or a BibTeX string")

// Normalizer holds a loaded BibTeX database.
type Normalizer struct {
	entries []Entry
}

// NewNormalizer returns an empty Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Load replaces the database with the entries read from the file at path
// or parsed from text. Exactly one of the two must be non-empty.
func (n *Normalizer) Load(path, text string) error {
	if (path == "") == (text == "") {
		return ErrSourceContract
	}

	var r io.Reader = strings.NewReader(text)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	entries, err := ParseEntries(r)
	if err != nil {
		return err
	}
	n.entries = entries
	return nil
}

// Entries returns the loaded entries in source order.
func (n *Normalizer) Entries() []Entry {
	return n.entries
}

// WriteAll writes every entry through FormatEntry in source order, each
// followed by a blank line.
func (n *Normalizer) WriteAll(w io.Writer, opts FormatOptions) error {
	for _, e := range n.entries {
		if _, err := io.WriteString(w, FormatEntry(e, opts)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ExportAll writes the formatted database to path in a single write.
func (n *Normalizer) ExportAll(path string, opts FormatOptions) error {
	var buf bytes.Buffer
	if err := n.WriteAll(&buf, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
