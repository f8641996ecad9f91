package model

import "time"

// FileType is the extension recorded for an uploaded spreadsheet.
type FileType string

const (
	FileTypeXLSX FileType = ".xlsx"
	FileTypeXLS  FileType = ".xls"
	FileTypeCSV  FileType = ".csv"
)

// Valid reports whether t is one of the accepted file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeXLSX, FileTypeXLS, FileTypeCSV:
		return true
	}
	return false
}

// UploadFile is the manifest of one file-ingestion run.
// TotalRows counts valid rows only; TotalColumns counts distinct header columns.
type UploadFile struct {
	ID              string    `json:"id"`
	FileName        string    `json:"file_name"`
	FileType        FileType  `json:"file_type"`
	FileSize        int64     `json:"file_size"`
	TotalRows       int       `json:"total_rows"`
	TotalColumns    int       `json:"total_columns"`
	UploadedBy      string    `json:"uploaded_by"`
	Managers        []string  `json:"managers"`
	Candidates      []string  `json:"candidates"`
	DistributionIDs []string  `json:"distribution_ids"`
	Policy          string    `json:"policy"`
	StoragePath     string    `json:"storage_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UploadDetail is a manifest together with its ledger entries and their records.
type UploadDetail struct {
	UploadFile
	Distributions []Assignment `json:"distributions"`
}
