// Package cmd implements the command-line interface for the dState codec.
// It provides commands to encode the built-in sample states, decode JSON into
// state types, inspect descriptors and module registrations and benchmark the
// codec.
//
// The package is organized into several subpackages:
//
//   - state: The codec commands (encode, decode, describe, resolve, modules, perf)
//   - serve: Command for starting the HTTP state server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment with the DSTATE_ prefix,
// e.g. DSTATE_MODULES=layout,components. See dstate -help for a list of all commands.
package cmd
