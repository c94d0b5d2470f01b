// The main package for the wongames executable.
package main

import (
	"github.com/matheusjv11/wongames-api/internal/cli"
)

// main defers all execution to the Cobra CLI.
func main() {
	cli.Execute()
}
