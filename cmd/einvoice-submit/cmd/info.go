package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-submit/internal/xml/resolver"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show the kind and canonical filename of XML documents",
	Long: `Classify XML documents without sending them.

Shows:
  - Document kind, detected from the root element
  - Canonical filename ({issuer}-{type}-{series}-{number})
  - File size

Examples:
  einvoice-submit info 20000000001-01-F001-1.xml
  einvoice-submit info -f json signed/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// InfoOutput describes one classified file
type InfoOutput struct {
	File     string `json:"file"`
	Kind     string `json:"kind,omitempty"`
	Filename string `json:"filename,omitempty"`
	Size     int    `json:"size"`
	Error    string `json:"error,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	outputs := make([]InfoOutput, 0, len(files))
	for _, file := range files {
		outputs = append(outputs, fileInfo(file))
	}

	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(w, outputs)
	}

	for _, o := range outputs {
		fmt.Fprintf(w, "File: %s\n", o.File)
		if o.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n\n", o.Error)
			continue
		}
		fmt.Fprintf(w, "  Size: %d bytes\n", o.Size)
		fmt.Fprintf(w, "  Kind: %s\n", o.Kind)
		fmt.Fprintf(w, "  Name: %s\n\n", o.Filename)
	}
	return nil
}

func fileInfo(path string) InfoOutput {
	out := InfoOutput{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		out.Error = fmt.Sprintf("failed to read file: %v", err)
		return out
	}
	out.Size = len(data)

	kind, filename, err := resolver.Resolve(data)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Kind = kind.String()
	out.Filename = filename
	return out
}
