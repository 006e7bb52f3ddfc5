package run

import (
	"bytes"
	"go/token"
	"os"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	. "github.com/onsi/gomega" //nolint:revive // Dot import intentional for Gomega matcher DSL
)

// parseInterface parses src and locates the named interface for test input.
func parseInterface(t *testing.T, src, name string) *dst.InterfaceType {
	t.Helper()

	file, err := decorator.ParseFile(token.NewFileSet(), "src.go", src, 0)
	if err != nil {
		t.Fatalf("failed to parse test source: %v", err)
	}

	iface, err := findInterface([]*dst.File{file}, name)
	if err != nil {
		t.Fatalf("failed to find interface: %v", err)
	}

	return iface
}

// envWith returns a getEnv func serving the given GOPACKAGE value.
func envWith(pkg string) func(string) string {
	return func(key string) string {
		if key == "GOPACKAGE" {
			return pkg
		}

		return ""
	}
}

// fakeFileSystem records the single WriteFile call Run is expected to make.
type fakeFileSystem struct {
	name string
	data []byte
	perm os.FileMode
}

func (f *fakeFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	f.name = name
	f.data = data
	f.perm = perm

	return nil
}

// TestParseArgs_Defaults verifies the double name defaults to <Interface>Double.
func TestParseArgs_Defaults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	info, err := parseArgs([]string{"standgen", "Store"}, envWith("shop"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(info.pkgName).To(Equal("shop"))
	g.Expect(info.interfaceName).To(Equal("Store"))
	g.Expect(info.doubleName).To(Equal("StoreDouble"))
}

// TestParseArgs_NameFlagOverrides verifies --name replaces the default.
func TestParseArgs_NameFlagOverrides(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	info, err := parseArgs([]string{"standgen", "Store", "--name", "FakeStore"}, envWith("shop"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(info.doubleName).To(Equal("FakeStore"))
}

// TestParseArgs_Rejections verifies each malformed invocation fails with a
// usage error.
func TestParseArgs_Rejections(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		args []string
		pkg  string
	}{
		"missing GOPACKAGE":    {args: []string{"standgen", "Store"}, pkg: ""},
		"missing interface":    {args: []string{"standgen"}, pkg: "shop"},
		"unknown flag":         {args: []string{"standgen", "Store", "--frobnicate"}, pkg: "shop"},
		"name without value":   {args: []string{"standgen", "Store", "--name"}, pkg: "shop"},
		"extra positional arg": {args: []string{"standgen", "Store", "Extra"}, pkg: "shop"},
	}

	for name, testCase := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := parseArgs(testCase.args, envWith(testCase.pkg))
			g.Expect(err).To(HaveOccurred())
		})
	}
}

// TestFindInterface_RejectsNonInterfaceAndMissing verifies detection errors
// for concrete types and unknown names.
func TestFindInterface_RejectsNonInterfaceAndMissing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	file, err := decorator.ParseFile(token.NewFileSet(), "src.go", "package p\n\ntype Store struct{}\n", 0)
	g.Expect(err).NotTo(HaveOccurred())

	_, err = findInterface([]*dst.File{file}, "Store")
	g.Expect(err).To(MatchError(ContainSubstring("not an interface")))

	_, err = findInterface([]*dst.File{file}, "Missing")
	g.Expect(err).To(MatchError(ContainSubstring("not found")))
}

// TestGenerateDouble_ForwardsEachMethod verifies the rendered double declares
// the struct, the constructor, and per-method forwarding with typed result
// assertions.
func TestGenerateDouble_ForwardsEachMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface := parseInterface(t, `package shop

type Store interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Close()
}
`, "Store")

	code, err := generateDouble(iface, doubleTemplateData{
		PkgName:       "shop",
		InterfaceName: "Store",
		DoubleName:    "StoreDouble",
	})
	g.Expect(err).NotTo(HaveOccurred())

	source := string(code)
	g.Expect(source).To(ContainSubstring("// Code generated by standgen. DO NOT EDIT."))
	g.Expect(source).To(ContainSubstring("package shop"))
	g.Expect(source).To(ContainSubstring("type StoreDouble struct"))
	g.Expect(source).To(ContainSubstring("func NewStoreDouble(t standin.TestReporter) *StoreDouble"))
	g.Expect(source).To(ContainSubstring(`standin.NewMethodSet("Get", "Put", "Close")`))
	g.Expect(source).To(ContainSubstring(`rets := s.D.Invoke("Get", key)`))
	g.Expect(source).To(ContainSubstring("r0 = rets[0].(string)"))
	g.Expect(source).To(ContainSubstring("r1 = rets[1].(error)"))
	g.Expect(source).To(ContainSubstring("return r0, r1"))
	// Void methods forward without capturing a return tuple.
	g.Expect(source).To(ContainSubstring(`s.D.Invoke("Close")`))
	g.Expect(source).NotTo(ContainSubstring(`rets := s.D.Invoke("Close")`))
}

// TestGenerateDouble_VariadicMethod verifies variadic parameters are flattened
// into the invocation argument list.
func TestGenerateDouble_VariadicMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface := parseInterface(t, `package shop

type Logger interface {
	Logf(format string, args ...any) int
}
`, "Logger")

	code, err := generateDouble(iface, doubleTemplateData{
		PkgName:       "shop",
		InterfaceName: "Logger",
		DoubleName:    "LoggerDouble",
	})
	g.Expect(err).NotTo(HaveOccurred())

	source := string(code)
	g.Expect(source).To(ContainSubstring("func (s *LoggerDouble) Logf(format string, args ...any) int"))
	g.Expect(source).To(ContainSubstring("callArgs := make([]any, 0, 1+len(args))"))
	g.Expect(source).To(ContainSubstring("callArgs = append(callArgs, format)"))
	g.Expect(source).To(ContainSubstring(`s.D.Invoke("Logf", callArgs...)`))
}

// TestGenerateDouble_SynthesizesUnnamedParams verifies unnamed and blank
// parameters get generated names so forwarding compiles.
func TestGenerateDouble_SynthesizesUnnamedParams(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface := parseInterface(t, `package shop

type Sink interface {
	Accept(_ string, _ int) error
}
`, "Sink")

	code, err := generateDouble(iface, doubleTemplateData{
		PkgName:       "shop",
		InterfaceName: "Sink",
		DoubleName:    "SinkDouble",
	})
	g.Expect(err).NotTo(HaveOccurred())

	source := string(code)
	g.Expect(source).To(ContainSubstring("Accept(a0 string, a1 int) error"))
	g.Expect(source).To(ContainSubstring(`s.D.Invoke("Accept", a0, a1)`))
}

// TestGenerateDouble_CompositeTypes verifies pointer, slice, map, chan, and
// selector types survive the syntax-level round trip.
func TestGenerateDouble_CompositeTypes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface := parseInterface(t, `package shop

import "os"

type Plumbing interface {
	Pipe(in <-chan []byte, opts map[string]*os.File) chan<- error
}
`, "Plumbing")

	code, err := generateDouble(iface, doubleTemplateData{
		PkgName:       "shop",
		InterfaceName: "Plumbing",
		DoubleName:    "PlumbingDouble",
	})
	g.Expect(err).NotTo(HaveOccurred())

	source := string(code)
	g.Expect(source).To(ContainSubstring("Pipe(in <-chan []byte, opts map[string]*os.File) chan<- error"))
	g.Expect(source).To(ContainSubstring("r0 = rets[0].(chan<- error)"))
}

// TestGenerateDouble_RejectsEmbeddedInterfaces verifies the syntax-level
// generator refuses interfaces it cannot fully expand.
func TestGenerateDouble_RejectsEmbeddedInterfaces(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface := parseInterface(t, `package shop

type Wide interface {
	Narrow
	Extra()
}

type Narrow interface {
	Get() string
}
`, "Wide")

	_, err := generateDouble(iface, doubleTemplateData{PkgName: "shop", InterfaceName: "Wide", DoubleName: "WideDouble"})
	g.Expect(err).To(MatchError(ContainSubstring("embedded interfaces")))
}

// TestGenerateDouble_RejectsEmptyInterface verifies there is nothing to
// generate for a methodless interface.
func TestGenerateDouble_RejectsEmptyInterface(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface := parseInterface(t, "package shop\n\ntype Nothing interface{}\n", "Nothing")

	_, err := generateDouble(iface, doubleTemplateData{PkgName: "shop", InterfaceName: "Nothing", DoubleName: "NothingDouble"})
	g.Expect(err).To(MatchError(ContainSubstring("declares no methods")))
}

// TestRun_GeneratesDoubleFile runs the full pipeline against this package's
// own FileSystem interface and checks the output file lands where go:generate
// callers expect it.
func TestRun_GeneratesDoubleFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := &fakeFileSystem{}

	var out bytes.Buffer

	err := Run([]string{"standgen", "FileSystem"}, envWith("run"), fs, &out)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(fs.name).To(Equal("filesystemdouble_test.go"))
	g.Expect(fs.perm).To(Equal(os.FileMode(0o644)))
	g.Expect(string(fs.data)).To(ContainSubstring("type FileSystemDouble struct"))
	g.Expect(string(fs.data)).To(ContainSubstring(`s.D.Invoke("WriteFile", name, data, perm)`))
	g.Expect(out.String()).To(ContainSubstring("standgen: wrote filesystemdouble_test.go"))
}
