package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status TICKET",
	Short: "Query the processing state of a ticket",
	Long: `Query the processing state of a ticket returned for a summary, voided
communication or reversion. One query is made per call.

Status codes:
  0   finished, the receipt (CDR) is returned
  98  still processing, try again later
  99  finished with errors

Examples:
  einvoice-submit status 1500523236696
  einvoice-submit status -f json 1500523236696`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	printVerbose("Querying ticket: %s\n", args[0])
	result, err := client.GetStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "Ticket: %s\n", args[0])
	if result.Code != "" {
		fmt.Fprintf(w, "  Status:   %s\n", result.Code)
	}
	writeResult(w, &result.Result)
	return nil
}
