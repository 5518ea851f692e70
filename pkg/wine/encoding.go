package wine

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Supported output encodings.
const (
	EncodingUTF8    = "utf8"
	EncodingCP1252  = "cp1252"
	EncodingUTF16LE = "utf16le"
	EncodingUTF16BE = "utf16be"
	EncodingAuto    = "auto"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoders holds every accepted encoding name. A nil value means the output
// is already UTF-8.
var decoders = map[string]encoding.Encoding{
	"":              nil,
	EncodingUTF8:    nil,
	"utf-8":         nil,
	EncodingCP1252:  charmap.Windows1252,
	"windows-1252":  charmap.Windows1252,
	"latin1":        charmap.Windows1252,
	"iso-8859-1":    charmap.Windows1252,
	EncodingUTF16LE: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16le":      unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	EncodingUTF16BE: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-16be":      unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

func normalizeEncoding(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// decoderFor returns the decoder registered under name.
func decoderFor(name string) (encoding.Encoding, error) {
	e, ok := decoders[normalizeEncoding(name)]
	if !ok {
		return nil, fmt.Errorf("wine: unknown output encoding %q", name)
	}
	return e, nil
}

// ValidateEncoding reports an error for unknown encoding names.
func ValidateEncoding(name string) error {
	if normalizeEncoding(name) == EncodingAuto {
		return nil
	}
	_, err := decoderFor(name)
	return err
}

// sniffBOM picks a UTF-16 decoder from a byte-order mark. Anything else,
// including a UTF-8 BOM, is treated as UTF-8.
func sniffBOM(data []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	return nil
}

// DecodeOutput converts captured process output to a UTF-8 string.
func DecodeOutput(data []byte, enc string) (string, error) {
	var e encoding.Encoding
	if normalizeEncoding(enc) == EncodingAuto {
		e = sniffBOM(data)
		if e == nil {
			data = bytes.TrimPrefix(data, utf8BOM)
		}
	} else {
		var err error
		if e, err = decoderFor(enc); err != nil {
			return "", err
		}
	}

	if e == nil {
		return string(data), nil
	}

	decoded, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode output as %s: %w", enc, err)
	}
	return string(decoded), nil
}
