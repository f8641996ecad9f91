package model

import "time"

// DataRecord is one contact extracted from an uploaded file.
// At least one of FullName, Email and Phone is non-empty; empty means absent.
type DataRecord struct {
	ID               string    `json:"id"`
	UploadFileID     string    `json:"upload_file_id"`
	Seq              int       `json:"seq"`
	FullName         string    `json:"full_name,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	AdditionalFields Fields    `json:"additional_fields"`
	CreatedAt        time.Time `json:"created_at"`
}
