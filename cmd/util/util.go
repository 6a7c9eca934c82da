package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/dState/lib/codec"
	"github.com/ValentinKolb/dState/lib/common"
	"github.com/ValentinKolb/dState/lib/demo"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

var Logger = logger.GetLogger("cli")

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var lines []string
	var line strings.Builder

	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > Wrap {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// SetupCodecFlags adds the flags shared by all codec commands
func SetupCodecFlags(cmd *cobra.Command) {
	key := "modules"
	cmd.PersistentFlags().String(key, strings.Join([]string{demo.ComponentsModule, demo.LayoutModule}, ","),
		WrapString("Candidate modules in search order (comma separated). The first one is the default module"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Log level (debug, info, warn, error)"))

	key = "indent"
	cmd.PersistentFlags().String(key, "", WrapString("Indent JSON output with this string (e.g. two spaces)"))

	key = "backfill"
	cmd.PersistentFlags().Bool(key, false, WrapString("Replace nil lists and dictionaries of the in-memory value with empty ones while encoding"))

	key = "format"
	cmd.PersistentFlags().String(key, string(common.FormatText), WrapString("Output format for descriptive commands (text, json, yaml)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dstate")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the codec configuration from viper
func GetConfig() (*common.CodecConfig, error) {
	format, err := common.ParseOutputFormat(viper.GetString("format"))
	if err != nil {
		return nil, err
	}

	var modules []string
	for _, name := range strings.Split(viper.GetString("modules"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			modules = append(modules, name)
		}
	}

	return &common.CodecConfig{
		Modules:      modules,
		Indent:       viper.GetString("indent"),
		Backfill:     viper.GetBool("backfill"),
		OutputFormat: format,
		LogLevel:     viper.GetString("log-level"),
	}, nil
}

// GetCodec creates a codec for the configured modules
func GetCodec(config *common.CodecConfig) (*codec.Codec, error) {
	modules, err := demo.Modules(config.Modules...)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("codec with modules %v (default %s)", config.Modules, config.DefaultModule())

	return codec.NewWithOptions(codec.Options{
		Backfill: config.Backfill,
		Indent:   config.Indent,
	}, modules...), nil
}

// ReadInput reads the named file, or stdin when name is empty or "-"
func ReadInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// DescribeError renders codec errors with their location
func DescribeError(err error) error {
	var cerr *codec.Error
	if errors.As(err, &cerr) {
		return fmt.Errorf("%s: %s", cerr.Kind, cerr.Detail())
	}
	return err
}
