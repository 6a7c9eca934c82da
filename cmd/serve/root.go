package serve

import (
	"github.com/ValentinKolb/dState/cmd/util"
	"github.com/ValentinKolb/dState/lib/common"
	"github.com/ValentinKolb/dState/lib/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	stateServer    *server.StateServer

	ServeCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the dState HTTP server",
		Long: util.WrapString(`Start the HTTP server that decodes and encodes state documents with the
configured modules. The configuration can be set via command line flags or environment variables.
The format of the environment variables is DSTATE_<flag> (e.g. DSTATE_ENDPOINT=0.0.0.0:9090)`),
		Args:    cobra.NoArgs,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// add flags
	key := "endpoint"
	ServeCmd.Flags().String(key, "0.0.0.0:8080", util.WrapString("The address on which the API will listen"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
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

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Codec = *config
	stateServer = server.NewStateServer(*serveCmdConfig, c)
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	util.Logger.Infof("configuration:%s", serveCmdConfig)
	return stateServer.Serve()
}
