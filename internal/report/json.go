package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// JSONWriter encodes the whole Document.
type JSONWriter struct {
	Indent string
}

type jsonResult struct {
	UniqueCount    int     `json:"unique_count"`
	CodeCount      int     `json:"code_count"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Encoding       string  `json:"encoding"`
}

type jsonDocument struct {
	Pattern string     `json:"pattern"`
	Values  []string   `json:"values"`
	Codes   []string   `json:"codes"`
	Result  jsonResult `json:"result"`
}

// Write implements Writer.
func (j JSONWriter) Write(w io.Writer, doc Document) error {
	out := jsonDocument{
		Pattern: doc.Pattern,
		Values:  nonNil(doc.Values),
		Codes:   nonNil(doc.Codes),
		Result: jsonResult{
			UniqueCount:    doc.Result.UniqueCount,
			CodeCount:      doc.Result.CodeCount,
			ElapsedSeconds: doc.Result.ElapsedSeconds(),
			Encoding:       doc.Result.Encoding,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if j.Indent != "" {
		enc.SetIndent("", j.Indent)
	}
	return eris.Wrap(enc.Encode(out), "report: encode json")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
