package model

import "time"

// Distribution is a ledger entry: the slice of records one candidate received from one upload.
type Distribution struct {
	ID            string    `json:"id"`
	UploadFileID  string    `json:"upload_file_id"`
	Position      int       `json:"position"`
	CandidateID   string    `json:"candidate_id"`
	RecordIDs     []string  `json:"record_ids"`
	DistributedBy string    `json:"distributed_by"`
	Time          time.Time `json:"time"`
	CreatedAt     time.Time `json:"created_at"`
}

// Assignment is a ledger entry with its data records loaded.
type Assignment struct {
	Distribution
	Records []DataRecord `json:"records"`
}
