// Package main is the entry point for the storefind CLI.
package main

import (
	"os"

	"github.com/runger/storefind/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
