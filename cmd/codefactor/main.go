// Package main provides the entry point for the codefactor CLI.
//
// codefactor annotates Python source files: it writes a header with a
// generated description, inserts explanatory comments before imports,
// functions and classes, and copies each file to a content-derived name.
//
// Usage:
//
//	codefactor process <directory>
//	codefactor history
//
// See --help for all available options.
package main

// main is the entry point for codefactor.
func main() {
	Execute()
}
