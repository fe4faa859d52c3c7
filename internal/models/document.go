package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyDocument is an S3-backed file attached to a property (lease scans,
// inspection reports, photos). Carries firm_id directly so row isolation
// never depends on the join to properties.
type PropertyDocument struct {
	ID          uuid.UUID `json:"id"`
	FirmID      uuid.UUID `json:"firm_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	ObjectKey   string    `json:"object_key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
