package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "khata-cli",
		Short: "Khata CLI tool",
		Long:  `A command line interface for interacting with the Khata API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Khata API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show khata summary totals",
		Run: func(cmd *cobra.Command, args []string) {
			showSummary()
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <khata-id>",
		Short: "Verify a khata's stored aggregates against its entries",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			verifyKhata(args[0])
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check API health",
		Run: func(cmd *cobra.Command, args []string) {
			checkHealth()
		},
	}

	rootCmd.AddCommand(summaryCmd, verifyCmd, healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func apiGet(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	return body, resp.StatusCode
}

func showSummary() {
	body, status := apiGet("/api/v1/khatas/summary")
	if status != http.StatusOK {
		fmt.Printf("Summary request FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if overall, ok := result["overall"].(map[string]any); ok {
		fmt.Printf("Total khatas:  %v\n", overall["total"])
		fmt.Printf("Active:        %v\n", overall["active"])
		fmt.Printf("Closed:        %v\n", overall["closed"])
		fmt.Printf("Total credit:  %v\n", overall["total_credit"])
		fmt.Printf("Total debit:   %v\n", overall["total_debit"])
		fmt.Printf("Net balance:   %v\n", overall["net_balance"])
	}
}

func verifyKhata(khataID string) {
	body, status := apiGet("/api/v1/khatas/" + khataID + "/verify")
	if status != http.StatusOK {
		fmt.Printf("Verification request FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Printf("Verification PASSED\n")
	} else {
		fmt.Printf("Verification FAILED\n")
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		os.Exit(1)
	}
}

func checkHealth() {
	body, status := apiGet("/ready")
	if status != http.StatusOK {
		fmt.Printf("Health check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	fmt.Printf("Health check PASSED\nResponse: %s\n", string(body))
}
