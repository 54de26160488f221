package report

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// CSVWriter writes one kind,value row per entry: "value" rows for the flat
// sequence, then "code" rows.
type CSVWriter struct{}

// Write implements Writer.
func (CSVWriter) Write(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"kind", "value"}); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, v := range doc.Values {
		if err := cw.Write([]string{"value", v}); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	for _, c := range doc.Codes {
		if err := cw.Write([]string{"code", c}); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}
