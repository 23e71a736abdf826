//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Lookup builds the CLI and prints the BibTeX record for url.
func Lookup(url string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "lookup", url)
}

// Format builds the CLI and rewrites the BibTeX file at path in place.
func Format(path string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "format", path, "--out", path)
}
