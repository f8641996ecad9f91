package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"donorapi/internal/model"
)

// maxDiagnostics bounds the parser messages kept for a single file.
const maxDiagnostics = 50

// Numbers outside ±2^53 stay strings so no digits are lost.
const maxSafeInteger = 1 << 53

var floatPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// Table is a parsed CSV file: a header row plus typed data rows.
type Table struct {
	Headers []string
	Rows    []Row
}

// Row is one data row. Cells holds the trimmed cell text by header position and Values the
// dynamically typed values keyed by header, in header order.
type Row struct {
	Line   int
	Cells  []string
	Values model.Fields
}

// ParseCSV decodes data and parses it as a header-first CSV document. Blank lines are skipped,
// headers and values are trimmed and duplicate headers get a numeric suffix. Any structural
// problem, including rows whose width differs from the header, fails the parse with one diagnostic
// per problem.
func ParseCSV(data []byte) (*Table, error) {
	text, err := decode(data)
	if err != nil {
		return nil, Wrap(KindParseError, ErrParse.Message, err)
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1

	var (
		table       Table
		diagnostics []string
		headerSeen  bool
	)
	addDiag := func(msg string) {
		if len(diagnostics) < maxDiagnostics {
			diagnostics = append(diagnostics, msg)
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, Wrap(KindParseError, ErrParse.Message, err)
			}
			addDiag(pe.Error())
			continue
		}
		line, _ := r.FieldPos(0)

		if !headerSeen {
			table.Headers = dedupeHeaders(rec)
			headerSeen = true
			continue
		}
		if blankLine(rec) && len(table.Headers) > 1 {
			continue
		}
		if n, want := len(rec), len(table.Headers); n != want {
			if n < want {
				addDiag(fmt.Sprintf("line %d: too few fields: expected %d fields but parsed %d", line, want, n))
			} else {
				addDiag(fmt.Sprintf("line %d: too many fields: expected %d fields but parsed %d", line, want, n))
			}
			continue
		}

		row := Row{Line: line, Cells: make([]string, len(rec))}
		for i, cell := range rec {
			v := strings.TrimSpace(cell)
			row.Cells[i] = v
			row.Values.Set(table.Headers[i], typeValue(v))
		}
		table.Rows = append(table.Rows, row)
	}

	if !headerSeen && len(diagnostics) == 0 {
		return nil, newError(KindEmptyFile, ErrEmptyFile.Message)
	}
	if len(diagnostics) > 0 {
		return nil, &Error{Kind: KindParseError, Message: ErrParse.Message, Details: diagnostics}
	}
	return &table, nil
}

// decode converts data to UTF-8. A byte order mark selects UTF-8 or UTF-16; input without one is
// read as UTF-8 when valid and as Latin-1 otherwise.
func decode(data []byte) ([]byte, error) {
	if hasBOM(data) || utf8.Valid(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		return out, err
	}
	return charmap.ISO8859_1.NewDecoder().Bytes(data)
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE})
}

func dedupeHeaders(rec []string) []string {
	headers := make([]string, len(rec))
	used := make(map[string]bool, len(rec))
	for i, h := range rec {
		h = strings.TrimSpace(h)
		name := h
		for n := 1; used[name]; n++ {
			name = h + "_" + strconv.Itoa(n)
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

func blankLine(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

// typeValue applies the dynamic typing rules to a trimmed cell: TRUE/true and FALSE/false become
// booleans, numeric literals numbers, the empty string null; anything else stays a string.
func typeValue(s string) model.FieldValue {
	switch s {
	case "":
		return model.NullValue()
	case "true", "TRUE":
		return model.BoolValue(true)
	case "false", "FALSE":
		return model.BoolValue(false)
	}
	if floatPattern.MatchString(s) {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && n >= -maxSafeInteger && n <= maxSafeInteger {
			return model.NumberValue(n)
		}
	}
	return model.StringValue(s)
}
