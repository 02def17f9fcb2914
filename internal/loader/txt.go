package loader

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lexflow/chronicle/internal/model"
)

// pageMarkRe matches a leading 3-4 digit page number used by typed case
// transcripts to mark page boundaries.
var pageMarkRe = regexp.MustCompile(`^\s*(\d{3,4})\b`)

// loadTXT reads a plain-text file, splitting pages on leading page-number
// markers. Files without markers become a single page.
func loadTXT(path string) ([]model.PageRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read %s", path)
	}

	var rawLines []string
	for _, ln := range strings.Split(string(raw), "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			rawLines = append(rawLines, t)
		}
	}

	var pages []model.PageRecord
	curPage := 1
	var curLines []string

	flush := func() {
		if len(curLines) == 0 {
			return
		}
		pages = append(pages, model.PageRecord{
			Number: curPage,
			Text:   strings.Join(curLines, "\n"),
			Lines:  curLines,
		})
		curLines = nil
	}

	for _, ln := range rawLines {
		if m := pageMarkRe.FindStringSubmatch(ln); m != nil {
			flush()
			if n, err := strconv.Atoi(m[1]); err == nil {
				curPage = n
			} else {
				curPage++
			}
			ln = strings.TrimSpace(ln[len(m[0]):])
			if ln == "" {
				continue
			}
		}
		curLines = append(curLines, ln)
	}
	flush()

	if len(pages) == 0 {
		pages = []model.PageRecord{{Number: 1, Text: string(raw), Lines: rawLines}}
	}
	return pages, nil
}
