// Package ingest turns an uploaded CSV file into validated contact rows and splits them across
// recipients.
package ingest

import (
	"bytes"
	"mime"
	"strings"

	"donorapi/internal/model"
)

// Request is one ingestion run's input.
type Request struct {
	FileName      string
	ContentType   string
	Size          int64
	Content       []byte
	DistributorID string
	CandidateIDs  []string
	Policy        string
}

// Batch is a request that passed every validation stage and is ready to persist.
type Batch struct {
	Table     *Table
	HeaderMap HeaderMap
	Rows      []StandardRow
	Policy    Policy
}

// TotalColumns is the number of distinct header columns in the parsed file.
func (b *Batch) TotalColumns() int { return len(b.Table.Headers) }

// Records converts the valid rows into data records in Seq order. IDs are left empty.
func (b *Batch) Records() []model.DataRecord {
	out := make([]model.DataRecord, len(b.Rows))
	for i, r := range b.Rows {
		out[i] = r.Record(b.HeaderMap)
	}
	return out
}

// IsCSV reports whether the upload is CSV-typed by file name or content type.
func IsCSV(fileName, contentType string) bool {
	if strings.HasSuffix(strings.ToLower(fileName), string(model.FileTypeCSV)) {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "text/csv"
}

// Prepare runs the validation stages of an ingestion in order: required input, format, empty
// content, parsing, header normalization and row validation. It performs no writes.
func Prepare(aliases AliasTable, req Request) (*Batch, error) {
	if err := checkRequired(req); err != nil {
		return nil, err
	}
	if !IsCSV(req.FileName, req.ContentType) {
		return nil, newError(KindUnsupportedFormat, ErrUnsupportedFormat.Message)
	}
	if len(bytes.TrimSpace(req.Content)) == 0 {
		return nil, newError(KindEmptyFile, ErrEmptyFile.Message)
	}

	table, err := ParseCSV(req.Content)
	if err != nil {
		return nil, err
	}

	hm := NormalizeHeaders(aliases, table.Headers)
	if len(hm) == 0 {
		return nil, newError(KindNoRecognizableColumns, ErrNoRecognizableColumns.Message)
	}

	rows := ValidateRows(table, hm)
	if len(rows) == 0 {
		return nil, newError(KindNoValidRows, ErrNoValidRows.Message)
	}

	return &Batch{
		Table:     table,
		HeaderMap: hm,
		Rows:      rows,
		Policy:    ParsePolicy(req.Policy),
	}, nil
}

func checkRequired(req Request) error {
	switch {
	case req.FileName == "" && len(req.Content) == 0:
		return newError(KindMissingInput, "file is required")
	case strings.TrimSpace(req.DistributorID) == "":
		return newError(KindMissingInput, "distributor id is required")
	case len(req.CandidateIDs) == 0:
		return newError(KindMissingInput, "at least one candidate id is required")
	}
	for _, id := range req.CandidateIDs {
		if strings.TrimSpace(id) == "" {
			return newError(KindMissingInput, "candidate ids must not be blank")
		}
	}
	return nil
}
