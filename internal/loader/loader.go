// Package loader reads supported document containers (PDF, DOCX, TXT)
// into ordered page records.
package loader

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lexflow/chronicle/internal/model"
	"github.com/lexflow/chronicle/internal/ocr"
)

// ErrUnsupported marks a file type the loader cannot read. Callers skip
// the document and continue the batch.
var ErrUnsupported = eris.New("loader: unsupported file type")

// supportedExts lists the container formats the loader handles.
var supportedExts = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// Loader turns files into page records. text extracts the native PDF text
// layer; fallback, when non-nil, handles scanned documents.
type Loader struct {
	text     ocr.Extractor
	fallback ocr.Extractor
}

// New creates a Loader. fallback may be nil to disable OCR for scanned
// pages.
func New(text, fallback ocr.Extractor) *Loader {
	return &Loader{text: text, fallback: fallback}
}

// Load reads a document into ordered page records, dispatching on the
// file extension.
func (l *Loader) Load(ctx context.Context, path string) ([]model.PageRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return l.loadPDF(ctx, path)
	case ".docx":
		return loadDOCX(path)
	case ".txt":
		return loadTXT(path)
	default:
		return nil, ErrUnsupported
	}
}

// loadPDF extracts the text layer per page. Pages with an empty text layer
// are assumed scanned; when any page is scanned and a fallback extractor
// is configured, the whole document is re-read through OCR so page numbers
// stay consistent.
func (l *Loader) loadPDF(ctx context.Context, path string) ([]model.PageRecord, error) {
	texts, err := l.text.ExtractPages(ctx, path)
	if err != nil {
		return nil, err
	}

	records := make([]model.PageRecord, 0, len(texts))
	anyScanned := false
	for i, t := range texts {
		scanned := strings.TrimSpace(t) == ""
		anyScanned = anyScanned || scanned
		records = append(records, model.NewPageRecord(i+1, t, scanned))
	}

	if anyScanned && l.fallback != nil {
		zap.L().Info("loader: scanned pages detected, running OCR",
			zap.String("file", path),
		)
		ocrTexts, err := l.fallback.ExtractPages(ctx, path)
		if err != nil {
			return nil, eris.Wrapf(err, "loader: OCR fallback for %s", path)
		}
		records = records[:0]
		for i, t := range ocrTexts {
			records = append(records, model.NewPageRecord(i+1, t, true))
		}
	}

	return records, nil
}
