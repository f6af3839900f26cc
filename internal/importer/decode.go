package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/Veraticus/financelama/internal/format"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decoderFor returns the decoder for one of the supported encodings.
// UTF-8 input may carry a byte order mark.
func decoderFor(name string) *encoding.Decoder {
	switch name {
	case format.EncodingWindows1252:
		return charmap.Windows1252.NewDecoder()
	case format.EncodingISO88591:
		return charmap.ISO8859_1.NewDecoder()
	default:
		return unicode.UTF8BOM.NewDecoder()
	}
}

// decode converts raw file content into UTF-8 text.
func decode(content []byte, enc string) (string, error) {
	out, err := decoderFor(enc).Bytes(content)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return string(out), nil
}

// newReader builds the csv reader used for every delimited layout.
func newReader(text string, comma rune) *csv.Reader {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r
}

// firstRecord parses the first line of text as one record. A line that
// does not parse yields nil.
func firstRecord(text string, comma rune) []string {
	line, err := bufio.NewReader(strings.NewReader(text)).ReadString('\n')
	if err != nil && line == "" {
		return nil
	}
	record, err := newReader(strings.TrimRight(line, "\r\n"), comma).Read()
	if err != nil {
		return nil
	}
	return record
}

// skipLines returns text without its first n lines.
func skipLines(text string, n int) string {
	for j := 0; j < n; j++ {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			return ""
		}
		text = text[i+1:]
	}
	return text
}
