// Package pdftext pulls per-page plain text out of PDF documents. It is the
// collaborator the NFS-e field extractor consumes; extraction rules never
// touch the PDF structure themselves.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledongthuc/pdf"
)

// Pages returns one text blob per page. A page whose text cannot be decoded
// yields an empty string plus a warning instead of failing the document, so
// a single bad page cannot sink a batch.
func Pages(r io.ReaderAt, size int64, logger *slog.Logger) ([]string, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("open pdf: %w", err)
	}

	var warnings []string
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			warnings = append(warnings, fmt.Sprintf("page %d: missing page object", i))
			pages = append(pages, "")
			continue
		}
		text, err := pageText(page)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			logger.Warn("pdftext.page.unreadable", "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, warnings, nil
}

// PagesFromBytes is a convenience wrapper for callers holding the whole file
// in memory (uploaded documents).
func PagesFromBytes(data []byte, logger *slog.Logger) ([]string, []string, error) {
	return Pages(bytes.NewReader(data), int64(len(data)), logger)
}

// pageText reassembles the page content row by row so that label/value pairs
// sharing a line stay on one line, which is what the extraction rules match
// against.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	var b bytes.Buffer
	for _, row := range rows {
		for i, word := range row.Content {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word.S)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
