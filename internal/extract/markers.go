package extract

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Preset names.
const (
	PresetGeneric = "generic"
	PresetUPD     = "upd"
)

// Markers is the literal vocabulary the extractor scans for.
type Markers struct {
	ShipDocName   string `yaml:"ship_doc_name" mapstructure:"ship_doc_name"`
	ShipDocNumber string `yaml:"ship_doc_number" mapstructure:"ship_doc_number"`
	ShipDocDate   string `yaml:"ship_doc_date" mapstructure:"ship_doc_date"`
	RecordEnd     string `yaml:"record_end" mapstructure:"record_end"`
	ItemTrigger   string `yaml:"item_trigger" mapstructure:"item_trigger"`
	ItemName      string `yaml:"item_name" mapstructure:"item_name"`
	ItemEnd       string `yaml:"item_end" mapstructure:"item_end"`
	CodeStart     string `yaml:"code_start" mapstructure:"code_start"`
	CodeEnd       string `yaml:"code_end" mapstructure:"code_end"`
	Delimiter     string `yaml:"delimiter" mapstructure:"delimiter"`
}

// DefaultMarkers returns the generic attribute vocabulary.
func DefaultMarkers() Markers {
	return Markers{
		ShipDocName:   "ShipDocName=",
		ShipDocNumber: "ShipDocNumber=",
		ShipDocDate:   "ShipDocDate=",
		RecordEnd:     "/>",
		ItemTrigger:   "ItemName",
		ItemName:      "ItemName=",
		ItemEnd:       "ItemUnitCode=",
		CodeStart:     "<Code>",
		CodeEnd:       "</Code>",
		Delimiter:     ":",
	}
}

// UPDMarkers returns the vocabulary of the Russian universal transfer
// document (УПД) with marking codes (КИЗ).
func UPDMarkers() Markers {
	return Markers{
		ShipDocName:   "НаимДокОтгр=",
		ShipDocNumber: "НомДокОтгр=",
		ShipDocDate:   "ДатаДокОтгр=",
		RecordEnd:     "/>",
		ItemTrigger:   "НаимТов",
		ItemName:      "НаимТов=",
		ItemEnd:       "ОКЕИ_Тов=",
		CodeStart:     "<КИЗ>",
		CodeEnd:       "</КИЗ>",
		Delimiter:     ":",
	}
}

// Preset returns the named marker set.
func Preset(name string) (Markers, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetGeneric:
		return DefaultMarkers(), nil
	case PresetUPD:
		return UPDMarkers(), nil
	default:
		return Markers{}, eris.Errorf("extract: unknown marker preset %q", name)
	}
}

// Merge returns m with every non-empty field of override applied.
func (m Markers) Merge(override Markers) Markers {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.ShipDocName, override.ShipDocName)
	set(&m.ShipDocNumber, override.ShipDocNumber)
	set(&m.ShipDocDate, override.ShipDocDate)
	set(&m.RecordEnd, override.RecordEnd)
	set(&m.ItemTrigger, override.ItemTrigger)
	set(&m.ItemName, override.ItemName)
	set(&m.ItemEnd, override.ItemEnd)
	set(&m.CodeStart, override.CodeStart)
	set(&m.CodeEnd, override.CodeEnd)
	set(&m.Delimiter, override.Delimiter)
	return m
}

// Validate rejects empty markers; an empty marker would match every line.
func (m Markers) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"ship_doc_name", m.ShipDocName},
		{"ship_doc_number", m.ShipDocNumber},
		{"ship_doc_date", m.ShipDocDate},
		{"record_end", m.RecordEnd},
		{"item_trigger", m.ItemTrigger},
		{"item_name", m.ItemName},
		{"item_end", m.ItemEnd},
		{"code_start", m.CodeStart},
		{"code_end", m.CodeEnd},
	}
	for _, f := range fields {
		if f.value == "" {
			return eris.Errorf("extract: marker %s is empty", f.name)
		}
	}
	return nil
}
