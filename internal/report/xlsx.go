package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXWriter writes a workbook with Data, Codes, and Summary sheets.
type XLSXWriter struct{}

// Write implements Writer.
func (XLSXWriter) Write(w io.Writer, doc Document) error {
	f := xlsx.NewFile()

	if err := addColumnSheet(f, "Data", "value", doc.Values); err != nil {
		return err
	}
	if err := addColumnSheet(f, "Codes", "code", doc.Codes); err != nil {
		return err
	}

	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "xlsx: add summary sheet")
	}
	addPair(sheet, "pattern").SetString(doc.Pattern)
	addPair(sheet, "encoding").SetString(doc.Result.Encoding)
	addPair(sheet, "unique").SetInt(doc.Result.UniqueCount)
	addPair(sheet, "codes").SetInt(doc.Result.CodeCount)
	addPair(sheet, "elapsed_seconds").SetFloat(doc.Result.ElapsedSeconds())

	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}

func addColumnSheet(f *xlsx.File, name, header string, values []string) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", name)
	}
	sheet.AddRow().AddCell().SetString(header)
	for _, v := range values {
		sheet.AddRow().AddCell().SetString(v)
	}
	return nil
}

// addPair appends a key/value row and returns the value cell.
func addPair(sheet *xlsx.Sheet, key string) *xlsx.Cell {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	return row.AddCell()
}
