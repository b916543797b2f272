package main

import (
	"os"

	datapilotcmder "github.com/datapilotco/datapilot/cmd/datapilot"
)

func main() {
	cmd := datapilotcmder.NewDataPilotCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
