// Package cli provides the command-line interface for jsonmock.
//
// The cli package implements the commands:
//   - serve: Load data and schema sources and host them as a REST API
//   - merge: Print the merged document that serve would host
//   - version: Show build information
//
// Running jsonmock with source flags and no subcommand behaves like serve.
package cli
