package loader

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lexflow/chronicle/internal/model"
)

// loadDOCX extracts paragraph text from a Word document. DOCX carries no
// page boundaries, so the whole document is a single page record.
func loadDOCX(path string) ([]model.PageRecord, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open docx %s", path)
	}
	defer zr.Close() //nolint:errcheck

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, eris.Errorf("loader: %s has no word/document.xml", path)
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open document.xml in %s", path)
	}
	defer rc.Close() //nolint:errcheck

	lines, err := docxParagraphs(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: parse docx %s", path)
	}

	return []model.PageRecord{{
		Number: 1,
		Text:   strings.Join(lines, "\n"),
		Lines:  lines,
	}}, nil
}

// docxParagraphs walks the WordprocessingML token stream, collecting the
// text runs (<w:t>) of each paragraph (<w:p>) into one line per paragraph.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var lines []string
	var cur strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(cur.String()); s != "" {
					lines = append(lines, s)
				}
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}

	if s := strings.TrimSpace(cur.String()); s != "" {
		lines = append(lines, s)
	}
	return lines, nil
}
