// Package main provides the entry point for the wardrobe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/wardrobe-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
