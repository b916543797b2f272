// Package datapilotcmder
package datapilotcmder

import (
	askcmder "github.com/datapilotco/datapilot/cmd/datapilot/ask"
	seedcmder "github.com/datapilotco/datapilot/cmd/datapilot/seed"
	servecmder "github.com/datapilotco/datapilot/cmd/datapilot/serve"
	versioncmder "github.com/datapilotco/datapilot/cmd/version"
	"github.com/spf13/cobra"
)

const datapilotLongDesc string = `DataPilot answers natural-language questions about a sample database.

Run services using:
  datapilot serve      Run the HTTP API server
  datapilot seed       Create and populate the sample database
  datapilot ask        Ask one question from the terminal`

const datapilotShortDesc string = "DataPilot - LLM-Powered Data Assistant"

func NewDataPilotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datapilot",
		Short: datapilotShortDesc,
		Long:  datapilotLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
