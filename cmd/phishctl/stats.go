package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type statsOutput struct {
	Scanned      int    `json:"scanned"`
	Blocked      int    `json:"blocked"`
	AverageScore int    `json:"average_score"`
	RiskLabel    string `json:"risk_label"`
	History      []int  `json:"history"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scan statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats statsOutput
		if err := callAgent("GET", "/api/v1/stats", nil, &stats); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(stats)
		}

		header("PhishDetector Statistics")
		fmt.Println()
		fmt.Printf("  Emails scanned   %d\n", stats.Scanned)
		fmt.Printf("  Threats blocked  %d\n", stats.Blocked)
		fmt.Println()

		style := labelStyle(stats.RiskLabel)
		fmt.Printf("  Average score    %3d  %s  %s\n",
			stats.AverageScore, gauge(stats.AverageScore, style), style.Render(stats.RiskLabel))
		fmt.Println()

		recent := stats.History
		if len(recent) > 10 {
			recent = recent[len(recent)-10:]
		}
		fmt.Printf("  Recent scans     %s\n", sparkline(recent))
		return nil
	},
}
