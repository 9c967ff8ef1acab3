// Package main provides the entry point for the stlexport CLI.
//
// stlexport batch-exports the components and assembly occurrences of the
// active design in a host CAD application as individual STL files, one
// timestamped folder per run, with a summary report.
//
// Usage:
//
//	stlexport export
//	stlexport history --design "Gearbox v3"
//
// See --help for all available options.
package main

// main is the entry point for stlexport.
func main() {
	Execute()
}
