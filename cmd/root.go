package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dState/cmd/serve"
	"github.com/ValentinKolb/dState/cmd/state"
	"github.com/ValentinKolb/dState/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dstate",
		Short: "polymorphic state codec",
		Long: fmt.Sprintf(`dState (v%s)

A JSON codec for application state written in Go. Values stored in
interface typed members keep their concrete type across a round trip
by means of Type and TypeCSharp discriminator members.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dState",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dState v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(state.Commands()...)
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupCodecFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
