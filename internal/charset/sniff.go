// Package charset guesses and resolves the text encoding of input files.
package charset

import (
	"errors"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/saintfish/chardet"
)

const (
	DefaultSampleSize = 10000
	DefaultThreshold  = 0.5
	DefaultLabel      = "utf-8"
	FallbackLabel     = "windows-1251"
)

// Detector guesses an encoding from a byte sample. Confidence is in [0, 1].
type Detector interface {
	Detect(sample []byte) (label string, confidence float64, err error)
}

// Decision is the outcome of sniffing one sample.
type Decision struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Guess      string  `json:"guess,omitempty"` // detector's label, even when rejected
}

// Sniffer picks an encoding label for a sample, falling back to a fixed
// label when the detector is not confident enough.
type Sniffer struct {
	Detector   Detector
	SampleSize int
	Threshold  float64 // guesses must be strictly more confident
	Default    string  // used for empty samples
	Fallback   string  // used at or below Threshold
}

// NewSniffer returns a Sniffer backed by chardet with the stock settings.
func NewSniffer() *Sniffer {
	return &Sniffer{
		Detector:   ChardetDetector{},
		SampleSize: DefaultSampleSize,
		Threshold:  DefaultThreshold,
		Default:    DefaultLabel,
		Fallback:   FallbackLabel,
	}
}

// Sniff never fails: a detector error counts as zero confidence.
func (s *Sniffer) Sniff(sample []byte) Decision {
	if len(sample) == 0 {
		return Decision{Label: s.defaultLabel()}
	}

	detector := s.Detector
	if detector == nil {
		detector = ChardetDetector{}
	}
	label, confidence, err := detector.Detect(sample)
	if err != nil || label == "" {
		return Decision{Label: s.fallbackLabel(), Guess: label}
	}
	// Guesses Lookup cannot decode fall back.
	if confidence > s.Threshold && Supported(label) {
		return Decision{Label: label, Confidence: confidence, Guess: label}
	}
	return Decision{Label: s.fallbackLabel(), Confidence: confidence, Guess: label}
}

// SniffFile reads up to SampleSize leading bytes of path and sniffs them.
func (s *Sniffer) SniffFile(path string) (Decision, error) {
	f, err := os.Open(path)
	if err != nil {
		return Decision{}, eris.Wrapf(err, "charset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	size := s.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}
	buf := make([]byte, size)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Decision{}, eris.Wrapf(err, "charset: read sample %s", path)
	}
	return s.Sniff(buf[:n]), nil
}

func (s *Sniffer) defaultLabel() string {
	if s.Default == "" {
		return DefaultLabel
	}
	return s.Default
}

func (s *Sniffer) fallbackLabel() string {
	if s.Fallback == "" {
		return FallbackLabel
	}
	return s.Fallback
}

// ChardetDetector adapts the ICU-derived detector from saintfish/chardet.
type ChardetDetector struct{}

// Detect implements Detector.
func (ChardetDetector) Detect(sample []byte) (string, float64, error) {
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return "", 0, eris.Wrap(err, "charset: detect")
	}
	return normalizeLabel(res.Charset), float64(res.Confidence) / 100, nil
}

// chardetLabels maps chardet names that no encoding index knows.
var chardetLabels = map[string]string{
	"GB-18030": "gb18030",
	"UTF-32BE": "utf-32be",
	"UTF-32LE": "utf-32le",
}

func normalizeLabel(label string) string {
	if name, ok := chardetLabels[label]; ok {
		return name
	}
	return label
}
