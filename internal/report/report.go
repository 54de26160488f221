// Package report renders the values of a finished run.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/markscan/internal/model"
)

// Supported formats.
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatXLSX     = "xlsx"
	FormatMarkdown = "markdown"
)

// Document is everything a writer renders.
type Document struct {
	Pattern string          `json:"pattern"`
	Values  []string        `json:"values"`
	Codes   []string        `json:"codes"`
	Result  model.RunResult `json:"result"`
}

// Writer renders a Document.
type Writer interface {
	Write(w io.Writer, doc Document) error
}

// Formats lists the names ForFormat accepts.
func Formats() []string {
	return []string{FormatText, FormatCSV, FormatJSON, FormatXLSX, FormatMarkdown}
}

// ForFormat returns the writer for name. limit caps the entries shown per
// list by the text and markdown writers; 0 shows everything.
func ForFormat(name string, limit int) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatText:
		return TextWriter{Limit: limit}, nil
	case FormatCSV:
		return CSVWriter{}, nil
	case FormatJSON:
		return JSONWriter{Indent: "  "}, nil
	case FormatXLSX:
		return XLSXWriter{}, nil
	case FormatMarkdown, "md":
		return MarkdownWriter{Limit: limit}, nil
	default:
		return nil, eris.Errorf("report: unknown format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
}

// Summary formats the one-line status shown when a run completes.
func Summary(r model.RunResult) string {
	return fmt.Sprintf("Finished in %.2f s | Encoding: %s | Unique: %d | Total codes: %d",
		r.ElapsedSeconds(), r.Encoding, r.UniqueCount, r.CodeCount)
}

func head(values []string, limit int) []string {
	if limit > 0 && len(values) > limit {
		return values[:limit]
	}
	return values
}

func limitLabel(limit int) string {
	if limit > 0 {
		return fmt.Sprintf(" (first %d entries)", limit)
	}
	return ""
}
