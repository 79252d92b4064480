package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type listsOutput struct {
	Trusted        []string `json:"trusted"`
	Reported       []string `json:"reported"`
	BlockedDomains []string `json:"blocked_domains"`
}

type messageOutput struct {
	Message string `json:"message"`
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show the sender and domain reputation lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		var lists listsOutput
		if err := callAgent("GET", "/api/v1/lists", nil, &lists); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(lists)
		}

		printList := func(title string, entries []string) {
			header(title)
			if len(entries) == 0 {
				fmt.Println(dimStyle.Render("  (empty)"))
			}
			for _, entry := range entries {
				fmt.Printf("  %s\n", entry)
			}
			fmt.Println()
		}
		printList("Trusted senders", lists.Trusted)
		printList("Reported senders", lists.Reported)
		printList("Blocked domains", lists.BlockedDomains)
		return nil
	},
}

var trustCmd = &cobra.Command{
	Use:   "trust <sender>",
	Short: "Add a sender to the trusted list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out messageOutput
		if err := callAgent("POST", "/api/v1/senders/trust", map[string]string{"sender": args[0]}, &out); err != nil {
			return err
		}
		fmt.Println(out.Message)
		return nil
	},
}

var reportMessagePath string

var reportCmd = &cobra.Command{
	Use:   "report <sender>",
	Short: "Report a sender",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := map[string]any{"sender": args[0]}
		if reportMessagePath != "" {
			raw, err := os.ReadFile(reportMessagePath)
			if err != nil {
				return fmt.Errorf("read message: %w", err)
			}
			payload["raw"] = raw
		}

		var out messageOutput
		if err := callAgent("POST", "/api/v1/senders/report", payload, &out); err != nil {
			return err
		}
		fmt.Println(out.Message)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportMessagePath, "message", "m", "", "path to the offending .eml, forwarded to the abuse mailbox when configured")
}

var blockDomainCmd = &cobra.Command{
	Use:   "block-domain <sender>",
	Short: "Block the domain of a sender address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out messageOutput
		if err := callAgent("POST", "/api/v1/domains/block", map[string]string{"sender": args[0]}, &out); err != nil {
			return err
		}
		fmt.Println(out.Message)
		return nil
	},
}
