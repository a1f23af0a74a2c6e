package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roach88/cardpolicy/internal/compiler"
)

// candidateDelimiters are tried in order; ties go to the earlier one.
var candidateDelimiters = []rune{';', ',', '\t', '|'}

// ParseDelimiter parses a delimiter setting. Empty or "auto" returns 0,
// meaning detect from the header line.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case ";", ",", "|":
		return rune(s[0]), nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q (want one of ; , tab |)", s)
}

// Delimited reads delimited text from a file or reader.
type Delimited struct {
	// Path is read when Reader is nil.
	Path string

	// Reader supplies the bytes directly.
	Reader io.Reader

	// Delimiter separates fields; 0 detects it from the header line.
	Delimiter rune

	// Encoding of the input; empty means EncodingAuto.
	Encoding Encoding
}

// Read decodes the input and splits it into headers and rows.
//
// The first record is the header row. Blank lines are skipped. Short
// records are padded with empty cells and surplus cells are dropped. When
// two headers share the same text the first column wins.
func (d Delimited) Read(ctx context.Context) ([]string, []compiler.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	raw, err := d.readAll()
	if err != nil {
		return nil, nil, err
	}

	text, err := decode(raw, d.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", d.name(), err)
	}

	delim := d.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(firstLine(text))
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: parse: %w", d.name(), err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers := records[0]
	rows := make([]compiler.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row := make(compiler.Row, len(headers))
		for i, h := range headers {
			if _, dup := row[h]; dup {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

func (d Delimited) readAll() ([]byte, error) {
	if d.Reader != nil {
		data, err := io.ReadAll(d.Reader)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return data, nil
}

func (d Delimited) name() string {
	if d.Reader != nil || d.Path == "" {
		return "input"
	}
	return d.Path
}

// DetectDelimiter picks the candidate delimiter occurring most often
// outside quotes in line. Falls back to ',' when none occurs.
func DetectDelimiter(line string) rune {
	counts := make(map[rune]int, len(candidateDelimiters))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, c := range candidateDelimiters {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

func firstLine(text []byte) string {
	for _, line := range bytes.Split(text, []byte("\n")) {
		if s := strings.TrimSpace(string(line)); s != "" {
			return s
		}
	}
	return ""
}
