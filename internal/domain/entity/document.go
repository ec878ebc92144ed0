package entity

import "time"

// SupportingDocument holds metadata for an uploaded file. The bytes
// themselves live in the blob store; StorageHandle is the opaque
// reference into it.
type SupportingDocument struct {
	ID            int64     `json:"id"`
	ClaimID       int64     `json:"claim_id"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	StorageHandle string    `json:"storage_handle"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
