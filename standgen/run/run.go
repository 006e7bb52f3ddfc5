// Package run implements the main logic of the standgen tool in a testable
// way: argument parsing, package loading, interface detection, and double
// generation are driven from Run with the filesystem injected.
package run

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// FileSystem interface for mocking.
type FileSystem interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Run executes the standgen tool logic. It takes command-line arguments, an
// environment variable getter (for the go:generate GOPACKAGE variable), a
// FileSystem for output, and a writer for progress messages. On success it
// writes a <name>_test.go file containing a typed double for the requested
// interface, in the calling package.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, out io.Writer) error {
	info, err := parseArgs(args, getEnv)
	if err != nil {
		return err
	}

	files, err := packageDST(".")
	if err != nil {
		return err
	}

	iface, err := findInterface(files, info.interfaceName)
	if err != nil {
		return err
	}

	code, err := generateDouble(iface, doubleTemplateData{
		PkgName:       info.pkgName,
		InterfaceName: info.interfaceName,
		DoubleName:    info.doubleName,
	})
	if err != nil {
		return err
	}

	outFile := strings.ToLower(info.doubleName) + "_test.go"

	err = fileSys.WriteFile(outFile, code, 0o644)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "standgen: wrote %s\n", outFile)

	return nil
}

// generatorInfo holds the parsed invocation details.
type generatorInfo struct {
	pkgName       string
	interfaceName string
	doubleName    string
}

// parseArgs extracts the interface name and options from the command line and
// environment. Expected form: standgen <Interface> [--name <DoubleName>].
func parseArgs(args []string, getEnv func(string) string) (generatorInfo, error) {
	info := generatorInfo{pkgName: getEnv("GOPACKAGE")}

	if info.pkgName == "" {
		//nolint:err113 // CLI usage error
		return generatorInfo{}, fmt.Errorf("GOPACKAGE is not set; run standgen via go:generate")
	}

	rest := args[1:]

	for i := 0; i < len(rest); i++ {
		arg := rest[i]

		switch {
		case arg == "--name":
			if i+1 >= len(rest) {
				//nolint:err113 // CLI usage error
				return generatorInfo{}, fmt.Errorf("--name requires a value")
			}

			i++
			info.doubleName = rest[i]
		case strings.HasPrefix(arg, "--"):
			//nolint:err113 // CLI usage error with dynamic context
			return generatorInfo{}, fmt.Errorf("unknown flag %q", arg)
		case info.interfaceName == "":
			info.interfaceName = arg
		default:
			//nolint:err113 // CLI usage error with dynamic context
			return generatorInfo{}, fmt.Errorf("unexpected argument %q", arg)
		}
	}

	if info.interfaceName == "" {
		//nolint:err113 // CLI usage error
		return generatorInfo{}, fmt.Errorf("usage: standgen <Interface> [--name <DoubleName>]")
	}

	if info.doubleName == "" {
		info.doubleName = info.interfaceName + "Double"
	}

	return info, nil
}
