package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-submit/internal/model"
)

var (
	signKind   string
	signOutput string
	signSend   bool
)

var signCmd = &cobra.Command{
	Use:   "sign --kind KIND FILE",
	Short: "Build and sign a document described as JSON",
	Long: `Build the XML for a document described as JSON and sign it with the
configured certificate. Nothing is sent unless --send is given.

The output defaults to stdout; use -o to write a file, or -o with a
directory to use the canonical filename.

Examples:
  einvoice-submit sign --kind invoice invoice.json
  einvoice-submit sign --kind summary summary.json -o out/
  einvoice-submit sign --kind invoice invoice.json --send`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringVarP(&signKind, "kind", "k", "", "Document kind")
	signCmd.Flags().StringVarP(&signOutput, "output", "o", "", "Output file or directory")
	signCmd.Flags().BoolVar(&signSend, "send", false, "Submit the document after signing")
	_ = signCmd.MarkFlagRequired("kind")
}

func runSign(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(signKind, args[0])
	if err != nil {
		return err
	}
	printVerbose("Document: %s (%s)\n", doc.Name(), doc.Kind())

	if cfg.CertFile == "" {
		return fmt.Errorf("a signing certificate is required (cert_file or EINVOICE_CERT_FILE)")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	signed, err := client.GetXmlSigned(cmd.Context(), doc)
	if err != nil {
		return err
	}

	if err := writeSigned(cmd, doc.Name(), signed); err != nil {
		return err
	}

	if !signSend {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	printVerbose("Sending: %s\n", doc.Name())
	result, err := client.SendXml(cmd.Context(), doc.Kind(), doc.Name(), signed)
	if err != nil {
		return err
	}
	return writeSendOutputs(cmd.ErrOrStderr(), []SendOutput{{
		File:     args[0],
		Kind:     doc.Kind(),
		Filename: doc.Name(),
		Result:   result,
	}})
}

// readDocument decodes a JSON file into the document type of kind
func readDocument(kindName, path string) (model.Document, error) {
	kind, err := model.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	doc, err := model.NewDocument(kind)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	return doc, nil
}

func writeSigned(cmd *cobra.Command, name string, signed []byte) error {
	if signOutput == "" {
		_, err := cmd.OutOrStdout().Write(signed)
		return err
	}

	path := signOutput
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = path + string(os.PathSeparator) + name + ".xml"
	}
	if err := os.WriteFile(path, signed, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	printVerbose("Written: %s\n", path)
	return nil
}
