// Package validation checks flat string maps against pipe-separated rules.
// Discovery uses it to vet manifest entries before anything reaches the
// container.
//
//	err := validation.Validate(map[string]string{
//	    "name":  "http.port",
//	    "alias": "port",
//	}, validation.Rules{
//	    "name":  "required|name|max:255",
//	    "alias": "required|name|different:name",
//	})
//
// Rules for a field run in order and stop at the first failure.
//
// # Available Rules
//
//   - required: present and not blank
//   - nullable: an empty value skips the remaining rules
//   - name: no whitespace anywhere
//   - min:n, max:n: rune length bounds
//   - numeric, integer, boolean
//   - in:a,b,c and not_in:a,b,c
//   - same:other and different:other compare against another field
//   - alpha, alpha_num, alpha_dash
//   - regex:pattern (the pattern may not contain "|")
//
// A failed Validate returns *Errors, whose Bag serialises as
//
//	{"errors": {"name": ["The name field is required."]}}
package validation
