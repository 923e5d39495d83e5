// Package archive reads and writes the zip containers exchanged with the authority.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/rezonia/einvoice-submit/internal/model"
)

// maxEntrySize bounds how much a single receipt entry may inflate to
const maxEntrySize = 32 << 20

// Compress packs content into a single-entry archive named filename
func Compress(filename string, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive entry %s: %w", filename, err)
	}
	if _, err := f.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write archive entry %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Entries lists the file entries of an archive in stored order, skipping directories
func Entries(data []byte) ([]string, error) {
	r, err := open(data)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range files(r) {
		names = append(names, f.Name)
	}
	return names, nil
}

// LastEntry decompresses the last file entry of an archive. By protocol
// convention the receipt is the last entry; earlier ones are ignored.
func LastEntry(data []byte) (string, []byte, error) {
	r, err := open(data)
	if err != nil {
		return "", nil, err
	}

	entries := files(r)
	if len(entries) == 0 {
		return "", nil, model.ErrMalformedArchive("archive has no entries", nil)
	}
	last := entries[len(entries)-1]

	content, err := read(last)
	if err != nil {
		return "", nil, err
	}
	return last.Name, content, nil
}

func open(data []byte) (*zip.Reader, error) {
	if len(data) == 0 {
		return nil, model.ErrMalformedArchive("archive is empty", nil)
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, model.ErrMalformedArchive("cannot open archive", err)
	}
	return r, nil
}

func files(r *zip.Reader) []*zip.File {
	out := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		out = append(out, f)
	}
	return out
}

func read(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, model.ErrMalformedArchive("cannot open entry "+f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, model.ErrMalformedArchive("cannot read entry "+f.Name, err)
	}
	if len(content) > maxEntrySize {
		return nil, model.ErrMalformedArchive("entry "+f.Name+" exceeds size limit", nil)
	}
	return content, nil
}
