package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type healthOutput struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check agent and backend health",
	RunE: func(cmd *cobra.Command, args []string) error {
		var health healthOutput
		if err := callAgent("GET", "/health", nil, &health); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(health)
		}

		if health.Backend == "reachable" {
			fmt.Println(safeStyle.Render("Shield Active"))
		} else {
			fmt.Println(dangerStyle.Render("Backend Offline"))
		}
		return nil
	},
}
