// Package main is the entry point for the packagelint CLI.
//
// All logic lives in the commands package.
package main

import (
	"os"

	"github.com/packagelint/packagelint/cmd/packagelint/commands"
)

func main() {
	os.Exit(commands.ExitCode(commands.Execute()))
}
