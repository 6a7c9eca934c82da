package state

import (
	"github.com/ValentinKolb/dState/cmd/util"
	"github.com/ValentinKolb/dState/lib/codec"
	"github.com/ValentinKolb/dState/lib/common"
	"github.com/spf13/cobra"
)

var (
	stateCodec  *codec.Codec
	stateConfig *common.CodecConfig
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	for _, cmd := range Commands() {
		if cmd.PreRunE == nil {
			cmd.PreRunE = setupCodec
		}
	}
}

// Commands returns the codec commands. They are added directly to the root command.
func Commands() []*cobra.Command {
	return []*cobra.Command{encodeCmd, decodeCmd, describeCmd, resolveCmd, modulesCmd, perfCmd}
}

// setupCodec reads the configuration, initializes the loggers and creates the codec
func setupCodec(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config, err := util.GetConfig()
	if err != nil {
		return err
	}
	if err := common.InitLoggers(*config); err != nil {
		return err
	}

	c, err := util.GetCodec(config)
	if err != nil {
		return err
	}

	stateConfig, stateCodec = config, c
	util.Logger.Debugf("configuration:%s", config)
	return nil
}
