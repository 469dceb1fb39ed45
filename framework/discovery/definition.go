package discovery

import (
	"fmt"
	"strconv"

	"github.com/km-arc/go-inject/framework/validation"
)

// Definition is one entity read from a definition file.
type Definition struct {
	Name string
	// Value is the constant; it is ignored when Factory is set.
	Value any
	// Factory is an ordinary Go function, adapted by container.Func.
	Factory   any
	DependsOn []string
	Tags      []string
	// Source is "path#n", n counting entries from 1.
	Source string
}

// IsFactory reports whether d registers a module rather than a constant.
func (d Definition) IsFactory() bool { return d.Factory != nil }

// AliasDefinition makes Alias another name for Name.
type AliasDefinition struct {
	Name   string
	Alias  string
	Source string
}

// Set is everything one file contributes.
type Set struct {
	Definitions []Definition
	Aliases     []AliasDefinition
}

func (s *Set) merge(o Set) {
	s.Definitions = append(s.Definitions, o.Definitions...)
	s.Aliases = append(s.Aliases, o.Aliases...)
}

var (
	entryRules = validation.Rules{"name": "required|name|max:255"}
	tagRules   = validation.Rules{"tag": "required|name|max:255"}
	aliasRules = validation.Rules{
		"name":  "required|name|max:255",
		"alias": "required|name|max:255|different:name",
	}
)

func (d Definition) validate() error {
	if err := validation.Validate(map[string]string{"name": d.Name}, entryRules); err != nil {
		return err
	}
	for _, tag := range d.Tags {
		if err := validation.Validate(map[string]string{"tag": tag}, tagRules); err != nil {
			return fmt.Errorf("tag %s: %w", strconv.Quote(tag), err)
		}
	}
	return nil
}

func (a AliasDefinition) validate() error {
	return validation.Validate(map[string]string{"name": a.Name, "alias": a.Alias}, aliasRules)
}
