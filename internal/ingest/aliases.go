package ingest

import (
	"slices"
	"strings"
)

// Field is a canonical contact field.
type Field string

const (
	FieldFullName Field = "full_name"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
)

// CanonicalFields lists the canonical fields in resolution order.
func CanonicalFields() []Field {
	return []Field{FieldFullName, FieldEmail, FieldPhone}
}

// AliasTable lists, per canonical field, the header spellings accepted for it in priority order.
// Tables are treated as read-only once built.
type AliasTable map[Field][]string

// DefaultAliases returns a fresh copy of the built-in alias table.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldFullName: {"full_name", "fullname", "full name", "name", "first_name", "first name", "candidate name"},
		FieldEmail:    {"email", "e-mail", "email address", "mail", "emailaddress", "e mail"},
		FieldPhone:    {"phone", "mobile", "phone number", "mobile number", "contact number", "cell", "cellphone"},
	}
}

// HeaderMap maps a canonical field to the original header that carries it.
type HeaderMap map[Field]string

// Targets returns the set of original headers consumed by canonical fields.
func (m HeaderMap) Targets() map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for _, h := range m {
		out[h] = struct{}{}
	}
	return out
}

// NormalizeHeaders resolves canonical fields against headers. Matching is case-insensitive and
// ignores surrounding whitespace; for each field the first alias present among the headers wins and
// the original header string is recorded. Fields without a match are absent from the result.
func NormalizeHeaders(aliases AliasTable, headers []string) HeaderMap {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	out := make(HeaderMap)
	for _, field := range CanonicalFields() {
		for _, alias := range aliases[field] {
			if i := slices.Index(normalized, normalizeHeader(alias)); i >= 0 {
				out[field] = headers[i]
				break
			}
		}
	}
	return out
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
