package discovery

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

var errNoParams = errors.New("cannot find the factory in the source; set depends_on")

// LoadGoFile interprets a Go definition file and collects the entries
// returned by its Definitions function. The file must be package main and
// declare
//
//	func Definitions() ([]map[string]any, error)
//
// (the error result is optional). A factory without "depends_on" takes its
// dependency names from its parameter names in the source.
func LoadGoFile(path string) (Set, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("discovery: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return Set{}, fmt.Errorf("discovery: %s is empty", path)
	}

	file, err := parser.ParseFile(token.NewFileSet(), path, code, parser.SkipObjectResolution)
	if err != nil {
		return Set{}, fmt.Errorf("discovery: parse %s: %w", path, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Set{}, fmt.Errorf("discovery: %s: load stdlib: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return Set{}, fmt.Errorf("discovery: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(definitionsFunc)
	if err != nil {
		return Set{}, fmt.Errorf("discovery: %s must define %s() ([]map[string]any, error): %w", path, definitionsFunc, err)
	}
	raws, err := invokeDefinitions(fnValue)
	if err != nil {
		return Set{}, fmt.Errorf("discovery: %s: %w", path, err)
	}

	var set Set
	for idx, raw := range raws {
		source := fmt.Sprintf("%s#%d", path, idx+1)
		def, err := decodeGoEntry(raw, file)
		if err != nil {
			return Set{}, fmt.Errorf("discovery: %s: %w", source, err)
		}
		def.Source = source
		set.Definitions = append(set.Definitions, def)
	}
	return set, nil
}

func invokeDefinitions(value reflect.Value) ([]map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", definitionsFunc)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", definitionsFunc)
	}
	if value.Type().NumIn() != 0 {
		return nil, fmt.Errorf("%s must take no arguments", definitionsFunc)
	}
	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", definitionsFunc)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok {
			return nil, e
		}
		return nil, fmt.Errorf("%s returned non-error second value", definitionsFunc)
	}

	defsVal := results[0]
	if defs, ok := defsVal.Interface().([]map[string]any); ok {
		return defs, nil
	}
	if defsVal.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s must return []map[string]any", definitionsFunc)
	}
	out := make([]map[string]any, defsVal.Len())
	for i := range out {
		m, ok := defsVal.Index(i).Interface().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not map[string]any", definitionsFunc, i)
		}
		out[i] = m
	}
	return out, nil
}

func decodeGoEntry(raw map[string]any, file *ast.File) (Definition, error) {
	for key := range raw {
		switch key {
		case "name", "value", "factory", "depends_on", "tags":
		default:
			return Definition{}, fmt.Errorf("unknown key %s", strconv.Quote(key))
		}
	}

	name, ok := raw["name"].(string)
	if !ok {
		return Definition{}, errors.New(`"name" must be a string`)
	}
	def := Definition{Name: name}

	tags, err := stringList(raw["tags"])
	if err != nil {
		return Definition{}, fmt.Errorf("tags: %w", err)
	}
	def.Tags = tags
	if err := def.validate(); err != nil {
		return Definition{}, err
	}

	value, hasValue := raw["value"]
	factory, hasFactory := raw["factory"]
	switch {
	case hasValue && hasFactory:
		return Definition{}, fmt.Errorf("%s sets both value and factory", strconv.Quote(name))
	case hasValue:
		def.Value = value
		return def, nil
	case !hasFactory:
		return Definition{}, fmt.Errorf("%s sets neither value nor factory", strconv.Quote(name))
	}

	fn := reflect.ValueOf(factory)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return Definition{}, fmt.Errorf("%s: factory must be a function, got %T", strconv.Quote(name), factory)
	}
	def.Factory = factory

	if rawDeps, set := raw["depends_on"]; set {
		deps, err := stringList(rawDeps)
		if err != nil {
			return Definition{}, fmt.Errorf("depends_on: %w", err)
		}
		def.DependsOn = deps
		return def, nil
	}

	deps, found := DeclaredParams(file, name)
	switch {
	case found:
		def.DependsOn = deps
	case fn.Type().NumIn() == 0:
	default:
		return Definition{}, fmt.Errorf("%s: %w", strconv.Quote(name), errNoParams)
	}
	return def, nil
}

// stringList accepts []string or []any holding strings. nil is an empty list.
func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T, want string", i, item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %T, want a list of strings", v)
}
