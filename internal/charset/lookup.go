package charset

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode/utf32"
)

// utf32Encodings covers the UTF-32 labels neither index can decode.
var utf32Encodings = map[string]encoding.Encoding{
	"utf-32":   utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
	"utf-32le": utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
	"utf-32be": utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
}

// Lookup resolves an encoding label. WHATWG names are tried first, then
// the IANA registry for labels browsers never adopted. Labels that only
// map to the WHATWG replacement encoding are rejected: it decodes any
// input to a single U+FFFD.
func Lookup(label string) (encoding.Encoding, error) {
	name := strings.TrimSpace(label)
	if name == "" {
		return nil, eris.New("charset: empty encoding label")
	}
	if enc, ok := utf32Encodings[strings.ToLower(name)]; ok {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		if enc == encoding.Replacement {
			return nil, eris.Errorf("charset: encoding %q is not decodable", label)
		}
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, eris.Wrapf(err, "charset: unknown encoding %q", label)
	}
	if enc == nil || enc == encoding.Replacement {
		return nil, eris.Errorf("charset: unsupported encoding %q", label)
	}
	return enc, nil
}

// Supported reports whether Lookup can decode label.
func Supported(label string) bool {
	_, err := Lookup(label)
	return err == nil
}

// Decode converts raw bytes to a string. Invalid sequences become U+FFFD
// instead of failing.
func Decode(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", eris.Wrap(err, "charset: decode")
	}
	return string(out), nil
}
