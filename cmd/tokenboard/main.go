// ABOUTME: Entry point for the tokenboard CLI
// ABOUTME: Delegates to the cobra command tree

package main

import (
	"os"

	"github.com/samuelikz/tokenboard/cmd/tokenboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
