// standin/standgen is a tool to generate typed test doubles for Go interfaces.
// To use it, install it with `go install github.com/standinhq/standin/standgen@latest`
// and in your test files, add a `//go:generate standgen <interface>` comment to generate a double for the
// specified interface. By default, the generated struct will be named <interface>Double. Add a `--name <name>`
// flag to specify a custom name. The generated double is placed in a file named <name>_test.go, in the same
// package as the file containing the `//go:generate` comment.
package main

import (
	"fmt"
	"os"

	"github.com/standinhq/standin/standgen/run"
)

// main is the entry point of the standgen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using the os package.
type realFileSystem struct{}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}
