package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	agentURL   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "phishctl",
	Short: "phishctl - control the PhishDetector agent",
	Long:  "PhishDetector: scan emails against the local analysis backend, manage sender reputation, and view scan statistics.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&agentURL, "agent", "http://127.0.0.1:8045", "base URL of the phishdetector agent")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output machine-readable JSON")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(trustCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(blockDomainCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show phishctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("phishctl %s\n", Version)
	},
}

// apiError is the agent's failure payload
type apiError struct {
	Error   bool     `json:"error"`
	Reasons []string `json:"reasons"`
}

// callAgent performs one request against the agent API and decodes the
// JSON response into out
func callAgent(method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, agentURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The agent's scan endpoint already enforces the backend deadline;
	// this only guards against a wedged agent.
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("agent unreachable at %s: %w", agentURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var fail apiError
		if json.Unmarshal(data, &fail) == nil && len(fail.Reasons) > 0 {
			return fmt.Errorf("%s", fail.Reasons[0])
		}
		return fmt.Errorf("agent returned HTTP %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
