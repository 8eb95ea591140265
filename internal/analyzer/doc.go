// Package analyzer derives a description, line comments, category tags and
// a content hash from the declarations of a source file.
//
// The description is a single sentence built from clauses:
//
//	This script uses libraries like os, sys; includes function `add`: Adds two numbers.; defines class `Shape`: No description available..
//
// Tags come from two configurable tables. Import tags match the recorded
// import name exactly; keyword tags match function names by case-folded
// substring. Classes never contribute tags.
//
// When the parser rejects a file, Analyze returns a degraded result with
// FallbackDescription and the SyntaxErrorTag tag instead of failing.
//
// Results are cached by full content digest, so byte-identical files in a
// run are parsed once. An Analyzer is safe for concurrent use.
package analyzer
