package parser

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding turns raw bytes into UTF-8 text or reports it cannot.
type Encoding struct {
	Name   string
	decode func([]byte) (string, error)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	EncUTF8        = Encoding{Name: "utf-8", decode: decodeStrictUTF8}
	EncUTF8BOM     = Encoding{Name: "utf-8-sig", decode: decodeUTF8BOM}
	EncWindows1254 = Encoding{Name: "windows-1254", decode: decodeCharmap(charmap.Windows1254)}
	EncLatin1      = Encoding{Name: "latin-1", decode: decodeCharmap(charmap.ISO8859_1)}
)

// Encodings returns the encodings in the order they are attempted.
func Encodings() []Encoding {
	return []Encoding{EncUTF8, EncUTF8BOM, EncWindows1254, EncLatin1}
}

// LookupEncoding finds an encoding by name; a few common aliases are accepted.
func LookupEncoding(name string) (Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return EncUTF8, true
	case "utf-8-sig", "utf8-bom", "utf-8-bom":
		return EncUTF8BOM, true
	case "windows-1254", "cp1254":
		return EncWindows1254, true
	case "latin-1", "latin1", "iso-8859-1":
		return EncLatin1, true
	}
	return Encoding{}, false
}

var (
	errInvalidUTF8 = errors.New("invalid utf-8")
	errBOM         = errors.New("unexpected byte-order mark")
	errUndefined   = errors.New("byte undefined in code page")
)

func decodeStrictUTF8(b []byte) (string, error) {
	if bytes.HasPrefix(b, utf8BOM) {
		return "", errBOM
	}
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}

func decodeUTF8BOM(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(b []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		// Single-byte input never carries U+FFFD itself, so any occurrence
		// comes from an unmapped byte.
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", errUndefined
		}
		return string(out), nil
	}
}
