// Package common provides the configuration and logging utilities shared by
// the dState packages and the dstate command line tool.
//
// The package focuses on:
//   - Configuration structures for the codec and the CLI
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - CodecConfig: Candidate module order, output settings and log level.
//     Provides a sectioned String() for printing the effective configuration.
//
//   - Logger: Custom ILogger implementation installed as Dragonboat's logger
//     factory, so that every named logger (codec, resolver, cli) writes lines
//     in the same "LEVEL | name | message" format.
package common
