// Package config provides the run configuration of codefactor: the
// directory to process, the annotation settings (developer name, file
// extension, backup suffix, log file name, hash algorithm, tag tables),
// batch concurrency, report format and history database location.
//
// Values are layered: NewConfig defaults, then the optional .codefactor.yaml
// file, then CODEFACTOR_* environment variables (a .env file is honored),
// then command-line flags.
package config
