// Package output serializes the final chronology table. Rows must already
// be deduplicated and sorted; writers only handle format mechanics.
package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/lexflow/chronicle/internal/model"
)

// columns is the fixed output header order.
var columns = []string{"DATE", "EVENT", "DESCRIPTION", "PAGE/SECTION", "SOURCE"}

// Write serializes rows to path, choosing the format from the extension:
// .json, .xlsx, or CSV for anything else.
func Write(rows []model.MergedRow, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "output: create directory %s", dir)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return writeJSON(rows, path)
	case ".xlsx":
		return writeXLSX(rows, path)
	default:
		return writeCSV(rows, path)
	}
}

func writeCSV(rows []model.MergedRow, path string) error {
	b, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "output: marshal csv")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrapf(err, "output: write %s", path)
	}
	return nil
}

func writeJSON(rows []model.MergedRow, path string) error {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return eris.Wrap(err, "output: marshal json")
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "output: write %s", path)
	}
	return nil
}

func writeXLSX(rows []model.MergedRow, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Chronology")
	if err != nil {
		return eris.Wrap(err, "output: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Date)
		row.AddCell().SetString(r.Event)
		row.AddCell().SetString(r.Description)
		row.AddCell().SetString(r.Location)
		row.AddCell().SetString(r.Source)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "output: save %s", path)
	}
	return nil
}
