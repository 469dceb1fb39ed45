package discovery

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// definitionsFunc is the function a Go definition file must declare.
const definitionsFunc = "Definitions"

// ParseParams returns the parameter names of a Go function signature, in
// order. It accepts a bare type ("func(a, b int)"), a literal with a body, or
// a named declaration ("func newDB(dsn string) *DB"). Unnamed parameters come
// back as "".
func ParseParams(signature string) ([]string, error) {
	src := strings.TrimSpace(signature)
	if !strings.HasPrefix(src, "func") {
		return nil, fmt.Errorf("discovery: %s is not a function signature", strconv.Quote(signature))
	}

	if expr, err := parser.ParseExpr(src); err == nil {
		switch fn := expr.(type) {
		case *ast.FuncType:
			return fieldNames(fn.Params), nil
		case *ast.FuncLit:
			return fieldNames(fn.Type.Params), nil
		}
	}

	// Named declarations only parse at file level, and need a body.
	for _, body := range []string{"", " {}"} {
		file, err := parser.ParseFile(token.NewFileSet(), "", "package p\n"+src+body, 0)
		if err != nil {
			continue
		}
		for _, decl := range file.Decls {
			if fd, ok := decl.(*ast.FuncDecl); ok {
				return fieldNames(fd.Type.Params), nil
			}
		}
	}
	return nil, fmt.Errorf("discovery: cannot parse signature %s", strconv.Quote(signature))
}

// DeclaredParams finds the definition named entry inside file's Definitions
// function and returns the parameter names of its factory. The factory must
// be a function literal or the name of a top-level function. ok is false when
// the entry or its factory cannot be found in the source.
func DeclaredParams(file *ast.File, entry string) (params []string, ok bool) {
	if file == nil {
		return nil, false
	}
	defs := findFunc(file, definitionsFunc)
	if defs == nil || defs.Body == nil {
		return nil, false
	}

	var (
		factory ast.Expr
		found   bool
	)
	ast.Inspect(defs.Body, func(n ast.Node) bool {
		if found {
			return false
		}
		lit, isLit := n.(*ast.CompositeLit)
		if !isLit {
			return true
		}
		fields := mapFields(lit)
		if name, has := fields["name"]; has && stringLit(name) == entry {
			factory, found = fields["factory"], true
			return false
		}
		return true
	})

	switch f := factory.(type) {
	case *ast.FuncLit:
		return fieldNames(f.Type.Params), true
	case *ast.Ident:
		if fd := findFunc(file, f.Name); fd != nil {
			return fieldNames(fd.Type.Params), true
		}
	}
	return nil, false
}

func findFunc(file *ast.File, name string) *ast.FuncDecl {
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Recv == nil && fd.Name.Name == name {
			return fd
		}
	}
	return nil
}

// mapFields indexes the string-keyed elements of a composite literal.
func mapFields(lit *ast.CompositeLit) map[string]ast.Expr {
	out := make(map[string]ast.Expr)
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		if key := stringLit(kv.Key); key != "" {
			out[key] = kv.Value
		}
	}
	return out
}

func stringLit(e ast.Expr) string {
	bl, ok := e.(*ast.BasicLit)
	if !ok || bl.Kind != token.STRING {
		return ""
	}
	s, err := strconv.Unquote(bl.Value)
	if err != nil {
		return ""
	}
	return s
}

func fieldNames(fl *ast.FieldList) []string {
	names := []string{}
	if fl == nil {
		return names
	}
	for _, field := range fl.List {
		if len(field.Names) == 0 {
			names = append(names, "")
			continue
		}
		for _, n := range field.Names {
			if n.Name == "_" {
				names = append(names, "")
				continue
			}
			names = append(names, n.Name)
		}
	}
	return names
}
