package ingest

import (
	"strings"

	"donorapi/internal/model"
)

// StandardRow is a validated row: the canonical values resolved through the header map plus the
// row's original typed values. Seq is the row's position among the valid rows of its file.
type StandardRow struct {
	Seq      int
	Line     int
	FullName string
	Email    string
	Phone    string
	Original model.Fields
}

// Merged returns the original values with the canonical keys added; canonical keys overwrite
// same-named original columns.
func (r StandardRow) Merged() model.Fields {
	out := r.Original.Clone()
	out.Set(string(FieldFullName), optional(r.FullName))
	out.Set(string(FieldEmail), optional(r.Email))
	out.Set(string(FieldPhone), optional(r.Phone))
	return out
}

// Record converts the row into a data record. Original columns that feed a canonical field are left
// out of the additional fields, as are null values. The email is lower-cased.
func (r StandardRow) Record(hm HeaderMap) model.DataRecord {
	targets := hm.Targets()
	var extra model.Fields
	for _, k := range r.Original.Keys() {
		if _, mapped := targets[k]; mapped {
			continue
		}
		if v, _ := r.Original.Get(k); !v.IsNull() {
			extra.Set(k, v)
		}
	}
	return model.DataRecord{
		Seq:              r.Seq,
		FullName:         r.FullName,
		Email:            strings.ToLower(r.Email),
		Phone:            r.Phone,
		AdditionalFields: extra,
	}
}

func optional(s string) model.FieldValue {
	if s == "" {
		return model.NullValue()
	}
	return model.StringValue(s)
}

// ValidateRows keeps the rows that carry at least one canonical value. Rows whose cells are all
// empty are dropped first. Canonical values come from the trimmed cell text, so phone numbers keep
// their leading zeros.
func ValidateRows(t *Table, hm HeaderMap) []StandardRow {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		index[h] = i
	}
	cell := func(row Row, f Field) string {
		h, ok := hm[f]
		if !ok {
			return ""
		}
		i, ok := index[h]
		if !ok || i >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[i])
	}

	out := make([]StandardRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		std := StandardRow{
			Line:     row.Line,
			FullName: cell(row, FieldFullName),
			Email:    cell(row, FieldEmail),
			Phone:    cell(row, FieldPhone),
			Original: row.Values,
		}
		if std.FullName == "" && std.Email == "" && std.Phone == "" {
			continue
		}
		std.Seq = len(out)
		out = append(out, std)
	}
	return out
}

func blankRow(row Row) bool {
	for _, k := range row.Values.Keys() {
		if v, _ := row.Values.Get(k); !v.IsEmpty() {
			return false
		}
	}
	return true
}
