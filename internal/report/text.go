package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
)

// TextWriter prints the extracted values and codes as two plain lists.
type TextWriter struct {
	Limit int
}

// Write implements Writer.
func (t TextWriter) Write(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Extracted data%s:\n", limitLabel(t.Limit))
	for _, v := range head(doc.Values, t.Limit) {
		fmt.Fprintln(bw, v)
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "Identification codes%s:\n", limitLabel(t.Limit))
	for _, c := range head(doc.Codes, t.Limit) {
		fmt.Fprintln(bw, c)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, Summary(doc.Result))
	return eris.Wrap(bw.Flush(), "report: write text")
}
