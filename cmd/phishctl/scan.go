package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type scanOutput struct {
	IsPhishing    bool     `json:"is_phishing"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
	MaliciousURLs []string `json:"malicious_urls"`
	Language      string   `json:"language,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan <message.eml>",
	Short: "Scan an email message for phishing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		var result scanOutput
		if err := callAgent("POST", "/api/v1/scan", map[string]any{"raw": raw}, &result); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(result)
		}

		renderVerdict(result)
		return nil
	},
}
