// Package main provides citedeck, a Zotero citation picker for slide
// documents.
package main

import (
	"os"

	"citedeck/internal/cli"
)

func main() {
	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, os.Environ(), cli.Defaults())

	os.Exit(exitCode)
}
