package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-submit/internal/signature"
	"github.com/rezonia/einvoice-submit/internal/signature/trust"
	"github.com/rezonia/einvoice-submit/internal/signature/xml"
)

var (
	caFile      string
	systemRoots bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Verify the signature of XML documents",
	Long: `Verify the enveloped XMLDSig signature of signed documents.

Verifies:
  - Signature validity against the embedded certificate
  - Certificate validity period
  - Certificate chain, when --ca-file, trust_file or --system-roots is given

Examples:
  einvoice-submit verify 20000000001-01-F001-1.xml
  einvoice-submit verify --ca-file ca.pem signed/
  einvoice-submit verify --system-roots F001-1.xml
  einvoice-submit verify -f json F001-1.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&caFile, "ca-file", "", "CA bundle for the chain check (PEM format)")
	verifyCmd.Flags().BoolVar(&systemRoots, "system-roots", false, "Trust the system CA pool for the chain check")
}

// VerifyOutput holds the result of verifying a single file
type VerifyOutput struct {
	File string `json:"file"`
	*signature.VerificationResult
	Error string `json:"error,omitempty"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to verify")
	}

	store, err := trustStore()
	if err != nil {
		return err
	}
	verifier := xml.NewXMLVerifier(store)

	outputs := make([]VerifyOutput, 0, len(files))
	allValid := true
	for _, file := range files {
		printVerbose("Verifying: %s\n", file)
		out := verifyFile(cmd.Context(), verifier, file)
		if out.VerificationResult == nil || !out.Valid {
			allValid = false
		}
		outputs = append(outputs, out)
	}

	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := writeJSON(w, outputs); err != nil {
			return err
		}
	} else {
		for _, o := range outputs {
			writeVerifyOutput(cmd, o)
		}
	}

	if !allValid {
		return fmt.Errorf("verification failed for some files")
	}
	return nil
}

// trustStore builds the chain check roots; nil skips the check
func trustStore() (*trust.TrustStore, error) {
	path := caFile
	if path == "" {
		path = cfg.TrustFile
	}

	if !systemRoots {
		if path == "" {
			return nil, nil
		}
		return trust.LoadFile(path)
	}

	store, err := trust.NewTrustStore()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := store.AddFile(path); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func verifyFile(ctx context.Context, verifier signature.Verifier, path string) VerifyOutput {
	out := VerifyOutput{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		out.Error = fmt.Sprintf("failed to read file: %v", err)
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := verifier.Verify(ctx, data)
	out.VerificationResult = result
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

func writeVerifyOutput(cmd *cobra.Command, o VerifyOutput) {
	w := cmd.OutOrStdout()
	r := o.VerificationResult

	if r == nil || !r.Valid {
		fmt.Fprintf(w, "✗ %s: INVALID\n", o.File)
	} else {
		fmt.Fprintf(w, "✓ %s: VALID\n", o.File)
	}
	if o.Error != "" {
		fmt.Fprintf(w, "  ✗ %s\n", o.Error)
	}
	if r == nil {
		return
	}

	if r.Filename != "" {
		fmt.Fprintf(w, "  Document: %s (%s)\n", r.Filename, r.Kind)
	}
	if r.Signer != nil {
		fmt.Fprintf(w, "  Signer:   %s\n", r.Signer.Name)
		if r.Signer.Issuer != "" {
			fmt.Fprintf(w, "  Issuer:   %s\n", r.Signer.Issuer)
		}
		fmt.Fprintf(w, "  Valid:    %s to %s\n",
			r.Signer.ValidFrom.Format(time.DateOnly), r.Signer.ValidTo.Format(time.DateOnly))
	}
	if r.SignatureFound {
		fmt.Fprintf(w, "  Signature:  %s\n", mark(r.SignatureValid))
		fmt.Fprintf(w, "  Cert Time:  %s\n", mark(r.CertTimeValid))
		fmt.Fprintf(w, "  Cert Chain: %s\n", mark(r.CertChainValid))
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  ✗ %s\n", e)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", warn)
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
