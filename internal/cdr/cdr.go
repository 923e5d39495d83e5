// Package cdr reads the authority's receipts (ApplicationResponse documents).
package cdr

import (
	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-submit/internal/archive"
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/xml/ubl"
)

const (
	rootApplicationResponse = "ApplicationResponse"
	pathResponse            = "DocumentResponse/Response"
)

// Extract decompresses the receipt archive and parses its last entry
func Extract(data []byte) (*model.CdrResponse, error) {
	name, content, err := archive.LastEntry(data)
	if err != nil {
		return nil, err
	}

	cdr, err := Parse(content)
	if err != nil {
		return nil, model.ErrMalformedCdr(name, "invalid receipt entry", err)
	}
	return cdr, nil
}

// Parse reads an ApplicationResponse document
func Parse(content []byte) (*model.CdrResponse, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, model.ErrMalformedCdr("", "failed to parse receipt XML", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != rootApplicationResponse {
		return nil, model.ErrMalformedCdr("root", "missing ApplicationResponse root", nil)
	}

	resp := ubl.Find(root, pathResponse)
	if resp == nil {
		return nil, model.ErrMalformedCdr(pathResponse, "missing document response", nil)
	}
	code := ubl.Text(resp, "ResponseCode")
	if code == "" {
		return nil, model.ErrMalformedCdr(pathResponse+"/ResponseCode", "missing response code", nil)
	}

	cdr := &model.CdrResponse{
		ID:          ubl.Text(root, "ID"),
		Code:        code,
		Description: ubl.Text(resp, "Description"),
		Reference:   ubl.Text(resp, "ReferenceID"),
	}
	for _, note := range root.SelectElements("Note") {
		cdr.Notes = append(cdr.Notes, note.Text())
	}
	return cdr, nil
}
