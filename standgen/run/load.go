package run

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// packageDST parses every non-generated .go file in dir into DST files.
// Fast DST parsing, no type checking: interface detection is syntax-based.
func packageDST(dir string) ([]*dst.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []*dst.File

	fset := token.NewFileSet()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", name, err)
		}

		file, err := decorator.ParseFile(fset, name, src, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to parse file %s: %w", name, err)
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		//nolint:err113 // load error with dynamic context
		return nil, fmt.Errorf("no Go source files found in %s", dir)
	}

	return files, nil
}

// findInterface locates a named interface declaration in the parsed files.
func findInterface(files []*dst.File, name string) (*dst.InterfaceType, error) {
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok || typeSpec.Name.Name != name {
					continue
				}

				iface, ok := typeSpec.Type.(*dst.InterfaceType)
				if !ok {
					//nolint:err113 // detection error with dynamic context
					return nil, fmt.Errorf("type %q is not an interface", name)
				}

				return iface, nil
			}
		}
	}

	//nolint:err113 // detection error with dynamic context
	return nil, fmt.Errorf("interface %q not found in package", name)
}
