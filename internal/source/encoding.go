package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names a text encoding for delimited input.
type Encoding string

const (
	// EncodingAuto detects a BOM, then accepts valid UTF-8, then falls back
	// to Windows-1252.
	EncodingAuto        Encoding = "auto"
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16       Encoding = "utf-16"
	EncodingWindows1252 Encoding = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ParseEncoding parses an encoding name. Empty means auto.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-16", "utf16":
		return EncodingUTF16, nil
	case "windows-1252", "cp1252", "latin1":
		return EncodingWindows1252, nil
	}
	return "", fmt.Errorf("unknown encoding %q", s)
}

// decode converts data to UTF-8 and strips any byte order mark.
func decode(data []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingAuto, "":
		switch {
		case bytes.HasPrefix(data, bomUTF8):
			return data[len(bomUTF8):], nil
		case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
			return decodeUTF16(data)
		case utf8.Valid(data):
			return data, nil
		}
		return decodeWindows1252(data)

	case EncodingUTF8:
		data = bytes.TrimPrefix(data, bomUTF8)
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("input is not valid UTF-8")
		}
		return data, nil

	case EncodingUTF16:
		return decodeUTF16(data)

	case EncodingWindows1252:
		return decodeWindows1252(data)
	}
	return nil, fmt.Errorf("unknown encoding %q", enc)
}

// decodeUTF16 honours a BOM and assumes little-endian without one.
func decodeUTF16(data []byte) ([]byte, error) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, fmt.Errorf("decode utf-16: %w", err)
	}
	return out, nil
}

func decodeWindows1252(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode windows-1252: %w", err)
	}
	return out, nil
}
