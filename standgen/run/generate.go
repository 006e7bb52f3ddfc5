package run

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/dave/dst"
)

// doubleTemplateData holds everything the double template needs.
type doubleTemplateData struct {
	PkgName       string
	InterfaceName string
	DoubleName    string
	Methods       []methodData
}

// methodData describes one interface method for the template.
type methodData struct {
	Name            string
	ParamsDecl      string   // e.g. "a0 string, a1 ...int"
	ResultsDecl     string   // e.g. "(string, error)" or "" for none
	FixedParamNames []string // non-variadic parameter names
	VariadicName    string   // name of the variadic parameter, or ""
	Results         []resultData
}

// resultData describes one return value for the template.
type resultData struct {
	Index int
	Type  string
}

// doubleTemplate renders the generated double file. Each method forwards to
// Double.Invoke and type-asserts the returned tuple back to the declared
// result types.
//
//nolint:gochecknoglobals // Template is read-only shared state
var doubleTemplate = template.Must(template.New("double").Parse(`// Code generated by standgen. DO NOT EDIT.

package {{.PkgName}}

import (
	standin "github.com/standinhq/standin"
)

// {{.DoubleName}} is a configurable test double for {{.InterfaceName}}.
type {{.DoubleName}} struct {
	D *standin.Double
}

// New{{.DoubleName}} creates the double and registers it under t.
func New{{.DoubleName}}(t standin.TestReporter) *{{.DoubleName}} {
	d := &{{.DoubleName}}{D: standin.NewDouble(t, standin.NewMethodSet({{range $i, $m := .Methods}}{{if $i}}, {{end}}"{{$m.Name}}"{{end}}))}
	d.D.SetSelf(d)

	return d
}
{{range .Methods}}
// {{.Name}} forwards to the double's dispatch engine.
func (s *{{$.DoubleName}}) {{.Name}}({{.ParamsDecl}}){{if .ResultsDecl}} {{.ResultsDecl}}{{end}} {
{{- if .VariadicName}}
	callArgs := make([]any, 0, {{len .FixedParamNames}}+len({{.VariadicName}}))
{{- range .FixedParamNames}}
	callArgs = append(callArgs, {{.}})
{{- end}}
	for _, v := range {{.VariadicName}} {
		callArgs = append(callArgs, v)
	}
	{{if .Results}}rets := {{end}}s.D.Invoke("{{.Name}}", callArgs...)
{{- else}}
	{{if .Results}}rets := {{end}}s.D.Invoke("{{.Name}}"{{range .FixedParamNames}}, {{.}}{{end}})
{{- end}}
{{- range .Results}}
	var r{{.Index}} {{.Type}}
	if len(rets) > {{.Index}} && rets[{{.Index}}] != nil {
		r{{.Index}} = rets[{{.Index}}].({{.Type}})
	}
{{- end}}
{{- if .Results}}
	return {{range $i, $r := .Results}}{{if $i}}, {{end}}r{{$r.Index}}{{end}}
{{- end}}
}
{{end}}`))

// generateDouble renders and gofmt-formats the double source for the given
// interface.
func generateDouble(iface *dst.InterfaceType, data doubleTemplateData) ([]byte, error) {
	methods, err := interfaceMethods(iface)
	if err != nil {
		return nil, err
	}

	data.Methods = methods

	var buf bytes.Buffer

	err = doubleTemplate.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code does not parse: %w", err)
	}

	return formatted, nil
}

// interfaceMethods extracts template data for each declared method. Embedded
// interfaces are rejected: resolving them needs type information this
// syntax-level generator deliberately avoids.
func interfaceMethods(iface *dst.InterfaceType) ([]methodData, error) {
	var methods []methodData

	for _, field := range iface.Methods.List {
		funcType, ok := field.Type.(*dst.FuncType)
		if !ok {
			//nolint:err113 // detection error with dynamic context
			return nil, fmt.Errorf("embedded interfaces are not supported; declare the methods directly")
		}

		if len(field.Names) == 0 {
			continue
		}

		method, err := buildMethodData(field.Names[0].Name, funcType)
		if err != nil {
			return nil, err
		}

		methods = append(methods, method)
	}

	if len(methods) == 0 {
		//nolint:err113 // detection error
		return nil, fmt.Errorf("interface declares no methods")
	}

	return methods, nil
}

// buildMethodData flattens one method signature into template data,
// synthesizing a0..aN names for unnamed parameters.
func buildMethodData(name string, funcType *dst.FuncType) (methodData, error) {
	method := methodData{Name: name}

	var decls []string

	argIndex := 0

	if funcType.Params != nil {
		for _, param := range funcType.Params.List {
			typeStr, err := typeString(param.Type)
			if err != nil {
				return methodData{}, fmt.Errorf("method %s: %w", name, err)
			}

			names := param.Names
			if len(names) == 0 {
				names = []*dst.Ident{dst.NewIdent(fmt.Sprintf("a%d", argIndex))}
			}

			for _, ident := range names {
				paramName := ident.Name
				if paramName == "_" {
					paramName = fmt.Sprintf("a%d", argIndex)
				}

				decls = append(decls, paramName+" "+typeStr)

				if _, variadic := param.Type.(*dst.Ellipsis); variadic {
					method.VariadicName = paramName
				} else {
					method.FixedParamNames = append(method.FixedParamNames, paramName)
				}

				argIndex++
			}
		}
	}

	method.ParamsDecl = strings.Join(decls, ", ")

	if funcType.Results != nil {
		var resultTypes []string

		for _, result := range funcType.Results.List {
			typeStr, err := typeString(result.Type)
			if err != nil {
				return methodData{}, fmt.Errorf("method %s: %w", name, err)
			}

			count := max(len(result.Names), 1)
			for range count {
				method.Results = append(method.Results, resultData{Index: len(method.Results), Type: typeStr})
				resultTypes = append(resultTypes, typeStr)
			}
		}

		switch len(resultTypes) {
		case 0:
		case 1:
			method.ResultsDecl = resultTypes[0]
		default:
			method.ResultsDecl = "(" + strings.Join(resultTypes, ", ") + ")"
		}
	}

	return method, nil
}

// typeString renders a syntax-level type expression back to source. Covers the
// type forms interface method signatures commonly use.
func typeString(expr dst.Expr) (string, error) {
	switch t := expr.(type) {
	case *dst.Ident:
		return t.Name, nil
	case *dst.SelectorExpr:
		pkg, err := typeString(t.X)
		if err != nil {
			return "", err
		}

		return pkg + "." + t.Sel.Name, nil
	case *dst.StarExpr:
		inner, err := typeString(t.X)
		if err != nil {
			return "", err
		}

		return "*" + inner, nil
	case *dst.ArrayType:
		inner, err := typeString(t.Elt)
		if err != nil {
			return "", err
		}

		if t.Len != nil {
			length, ok := t.Len.(*dst.BasicLit)
			if !ok {
				//nolint:err113 // stringify error
				return "", fmt.Errorf("unsupported array length expression")
			}

			return "[" + length.Value + "]" + inner, nil
		}

		return "[]" + inner, nil
	case *dst.Ellipsis:
		inner, err := typeString(t.Elt)
		if err != nil {
			return "", err
		}

		return "..." + inner, nil
	case *dst.MapType:
		key, err := typeString(t.Key)
		if err != nil {
			return "", err
		}

		value, err := typeString(t.Value)
		if err != nil {
			return "", err
		}

		return "map[" + key + "]" + value, nil
	case *dst.ChanType:
		inner, err := typeString(t.Value)
		if err != nil {
			return "", err
		}

		switch t.Dir {
		case dst.RECV:
			return "<-chan " + inner, nil
		case dst.SEND:
			return "chan<- " + inner, nil
		default:
			return "chan " + inner, nil
		}
	case *dst.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "any", nil
		}

		//nolint:err113 // stringify error
		return "", fmt.Errorf("unsupported inline interface type")
	default:
		//nolint:err113 // stringify error with dynamic context
		return "", fmt.Errorf("unsupported type expression %T", expr)
	}
}
