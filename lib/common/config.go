package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Output formats
// --------------------------------------------------------------------------

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a format name given on the command line.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format: %s. must be one of text, json, yaml", s)
	}
}

// --------------------------------------------------------------------------
// Codec configuration struct
// --------------------------------------------------------------------------

// CodecConfig holds the settings shared by all dstate commands.
type CodecConfig struct {
	// Modules are the candidate module names in search order, the first one
	// is the default module
	Modules []string

	// Output settings
	Indent       string
	Backfill     bool
	OutputFormat OutputFormat

	// Logging configuration
	LogLevel string
}

// DefaultModule returns the name of the default module or an empty string.
func (c *CodecConfig) DefaultModule() string {
	if len(c.Modules) == 0 {
		return ""
	}
	return c.Modules[0]
}

// String returns a formatted string representation of the configuration
func (c *CodecConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Candidate modules
	addSection("Modules")
	addField("Default", c.DefaultModule())
	for i, name := range c.Modules {
		addField(strconv.Itoa(i), name)
	}

	// Output
	addSection("Output")
	addField("Format", string(c.OutputFormat))
	addField("Indent", strconv.Quote(c.Indent))
	addField("Backfill", strconv.FormatBool(c.Backfill))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// HTTP server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds the settings of the state server.
type ServerConfig struct {
	// Endpoint is the address the HTTP server listens on
	Endpoint string

	Codec CodecConfig
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("HTTP SERVER\n")
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", "Endpoint", c.Endpoint))
	sb.WriteString(c.Codec.String())
	return sb.String()
}
