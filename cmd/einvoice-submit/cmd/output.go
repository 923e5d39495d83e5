package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rezonia/einvoice-submit/internal/model"
)

// SendOutput is the outcome of one submitted file
type SendOutput struct {
	File     string        `json:"file"`
	Kind     model.Kind    `json:"kind,omitempty"`
	Filename string        `json:"filename,omitempty"`
	Result   *model.Result `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeResult prints a result in table form
func writeResult(w io.Writer, r *model.Result) {
	switch r.Variant() {
	case model.VariantError:
		fmt.Fprintf(w, "  Rejected: %s\n", r.Error.Code)
		fmt.Fprintf(w, "  Message:  %s\n", r.Error.Message)
	case model.VariantTicket:
		fmt.Fprintf(w, "  Ticket:   %s\n", r.Ticket)
	case model.VariantCDR:
		cdr := r.CDRResponse
		state := "ACCEPTED"
		if !cdr.IsAccepted() {
			state = "REJECTED"
		}
		fmt.Fprintf(w, "  CDR:      %s (%s)\n", state, cdr.Code)
		if cdr.Reference != "" {
			fmt.Fprintf(w, "  Document: %s\n", cdr.Reference)
		}
		fmt.Fprintf(w, "  Message:  %s\n", cdr.Description)
		for _, note := range cdr.Notes {
			fmt.Fprintf(w, "  ⚠ %s\n", note)
		}
	}
}

func writeSendOutputs(w io.Writer, outputs []SendOutput) error {
	if outputFormat == "json" {
		return writeJSON(w, outputs)
	}

	for _, o := range outputs {
		if o.Error != "" {
			fmt.Fprintf(w, "✗ %s: %s\n", o.File, o.Error)
			continue
		}
		icon := "✓"
		if !o.Result.Success || (o.Result.CDRResponse != nil && !o.Result.CDRResponse.IsAccepted()) {
			icon = "✗"
		}
		fmt.Fprintf(w, "%s %s\n", icon, o.File)
		if o.Filename != "" {
			fmt.Fprintf(w, "  Name:     %s (%s)\n", o.Filename, o.Kind)
		}
		writeResult(w, o.Result)
	}
	return nil
}
