// Package extract pulls shipment records, item names, and identification
// codes out of semi-structured tagged text by scanning each line for
// literal start and end markers. Lines are never parsed as markup: a
// field whose end marker is missing is skipped, and markers embedded in
// unrelated values are taken at face value.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Kind identifies the category of an extracted value.
type Kind int

const (
	KindShipment Kind = iota + 1
	KindItem
	KindCode
)

func (k Kind) String() string {
	switch k {
	case KindShipment:
		return "shipment"
	case KindItem:
		return "item"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// IsRecord reports whether values of this kind count toward the unique
// record total.
func (k Kind) IsRecord() bool {
	return k == KindShipment || k == KindItem
}

// Value is one field extracted from a line.
type Value struct {
	Kind Kind
	Text string
}

// Extractor applies the three marker tests to single lines. It holds no
// state between lines and is safe for concurrent use.
type Extractor struct {
	m Markers
}

// New validates the markers and returns an Extractor.
func New(m Markers) (*Extractor, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{m: m}, nil
}

// Markers returns the vocabulary in use.
func (e *Extractor) Markers() Markers {
	return e.m
}

// Scan runs the shipment, item, and code tests in that order. All three
// run on every line, so one line can yield up to three values.
func (e *Extractor) Scan(line string) []Value {
	var out []Value
	if v, ok := e.shipment(line); ok {
		out = append(out, Value{Kind: KindShipment, Text: v})
	}
	if v, ok := e.item(line); ok {
		out = append(out, Value{Kind: KindItem, Text: v})
	}
	if v, ok := e.code(line); ok {
		out = append(out, Value{Kind: KindCode, Text: v})
	}
	return out
}

// shipment joins name, number, and date raw, without unescaping. Only the
// record end marker gates emission.
func (e *Extractor) shipment(line string) (string, bool) {
	m := e.m
	if !strings.Contains(line, m.ShipDocName) {
		return "", false
	}
	dateEnd := find(line, m.RecordEnd)
	if dateEnd < 0 {
		return "", false
	}

	name := slice(line, after(line, m.ShipDocName), find(line, m.ShipDocNumber))
	number := slice(line, after(line, m.ShipDocNumber), find(line, m.ShipDocDate))
	date := slice(line, after(line, m.ShipDocDate), dateEnd)

	return name + m.Delimiter + number + m.Delimiter + date, true
}

func (e *Extractor) item(line string) (string, bool) {
	if !strings.Contains(line, e.m.ItemTrigger) {
		return "", false
	}
	return between(line, e.m.ItemName, e.m.ItemEnd)
}

func (e *Extractor) code(line string) (string, bool) {
	if !strings.Contains(line, e.m.CodeStart) {
		return "", false
	}
	return between(line, e.m.CodeStart, e.m.CodeEnd)
}

// between extracts and unescapes the text from start to end, reporting
// false when end does not occur in line.
func between(line, start, end string) (string, bool) {
	stop := find(line, end)
	if stop < 0 {
		return "", false
	}
	return html.UnescapeString(slice(line, after(line, start), stop)), true
}
