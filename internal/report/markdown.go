package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/rotisserie/eris"
)

// MarkdownWriter renders a summary table followed by the two lists.
type MarkdownWriter struct {
	Limit int
}

// Write implements Writer.
func (m MarkdownWriter) Write(w io.Writer, doc Document) error {
	md := markdown.NewMarkdown(w)

	md.H1("Extraction report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Pattern", "`" + doc.Pattern + "`"},
			{"Encoding", doc.Result.Encoding},
			{"Unique records", strconv.Itoa(doc.Result.UniqueCount)},
			{"Identification codes", strconv.Itoa(doc.Result.CodeCount)},
			{"Elapsed", fmt.Sprintf("%.2f s", doc.Result.ElapsedSeconds())},
		},
	})
	md.PlainText("")

	md.H2("Extracted data" + limitLabel(m.Limit))
	writeList(md, head(doc.Values, m.Limit))

	md.H2("Identification codes" + limitLabel(m.Limit))
	writeList(md, head(doc.Codes, m.Limit))

	return eris.Wrap(md.Build(), "report: write markdown")
}

func writeList(md *markdown.Markdown, values []string) {
	if len(values) == 0 {
		md.PlainText("_none_")
		md.PlainText("")
		return
	}
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = "`" + v + "`"
	}
	md.BulletList(items...)
	md.PlainText("")
}
