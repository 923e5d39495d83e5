package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/see"
	"github.com/rezonia/einvoice-submit/internal/xml/resolver"
)

var (
	sendKind string
	sendName string
)

var sendCmd = &cobra.Command{
	Use:   "send [files...]",
	Short: "Submit signed XML documents",
	Long: `Submit signed XML documents to SUNAT.

By default the document kind and the canonical filename are read from the
XML itself. Use --kind and --name to submit a single file under an explicit
kind and filename instead; the content is sent unchanged.

Invoices, notes, despatch advices, retention and perception certificates
return a receipt (CDR). Summaries, voided communications and reversions
return a ticket; poll it with the status command.

Examples:
  einvoice-submit send 20000000001-01-F001-1.xml
  einvoice-submit send signed/
  einvoice-submit send --kind summary --name 20000000001-RC-20170809-001 rc.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendKind, "kind", "k", "", "Document kind (invoice, note, summary, voided, reversion, despatch, retention, perception)")
	sendCmd.Flags().StringVarP(&sendName, "name", "n", "", "Filename without extension, required with --kind")
}

func runSend(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if sendKind != "" {
		return sendExplicit(cmd, client, args)
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to send")
	}

	outputs := make([]SendOutput, 0, len(files))
	failed := false
	for _, file := range files {
		printVerbose("Sending: %s\n", file)
		out := sendFile(cmd.Context(), client, file)
		if out.Error != "" || !out.Result.Success {
			failed = true
		}
		outputs = append(outputs, out)
	}

	if err := writeSendOutputs(cmd.OutOrStdout(), outputs); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("submission failed for some files")
	}
	return nil
}

func sendFile(ctx context.Context, client *see.See, file string) SendOutput {
	out := SendOutput{File: file}

	data, err := os.ReadFile(file)
	if err != nil {
		out.Error = fmt.Sprintf("failed to read file: %v", err)
		return out
	}

	if kind, filename, err := resolver.Resolve(data); err == nil {
		out.Kind, out.Filename = kind, filename
		printVerbose("  %s as %s\n", kind, filename)
	}

	result, err := client.SendXmlFile(ctx, data)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Result = result
	return out
}

func sendExplicit(cmd *cobra.Command, client *see.See, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("--kind takes exactly one file")
	}
	if sendName == "" {
		return fmt.Errorf("--name is required with --kind")
	}
	kind, err := model.ParseKind(sendKind)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	out := SendOutput{File: args[0], Kind: kind, Filename: sendName}
	result, err := client.SendXml(cmd.Context(), kind, sendName, data)
	if err != nil {
		return err
	}
	out.Result = result

	if err := writeSendOutputs(cmd.OutOrStdout(), []SendOutput{out}); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("document rejected")
	}
	return nil
}
