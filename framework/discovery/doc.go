// Package discovery finds definition files under a directory and registers
// what they declare into a container.
//
// Two file kinds are read. YAML manifests carry constants and aliases:
//
//	constants:
//	  - name: port
//	    value: 8080
//	    tags: [net]
//	aliases:
//	  - name: port
//	    alias: http.port
//
// Go files are interpreted at runtime and must declare a Definitions
// function in package main:
//
//	package main
//
//	import "fmt"
//
//	func Definitions() ([]map[string]any, error) {
//		return []map[string]any{
//			{"name": "addr", "factory": func(port int) string {
//				return fmt.Sprintf(":%d", port)
//			}},
//		}, nil
//	}
//
// A factory's dependencies are its parameter names, read from the source
// text, unless the entry sets "depends_on".
package discovery
