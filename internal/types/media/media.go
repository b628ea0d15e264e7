package media

import "time"

// PhotoRecord is one uploaded job photo in the catalog. StorageKey addresses exactly one
// object in the object store until the record is deleted.
type PhotoRecord struct {
	ID          string    `json:"id"`
	StorageKey  string    `json:"storage_key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	UploadedBy  string    `json:"uploaded_by"`
	Description string    `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
	JobID       string    `json:"job_id,omitempty"`
}

// PhotoMetadata is the caller-supplied part of a new upload.
type PhotoMetadata struct {
	Description string `json:"description" validate:"max=500"`
	JobID       string `json:"job_id" validate:"omitempty,max=64"`
}

type UpdateDescriptionRequest struct {
	Description string `json:"description" validate:"max=500"`
}

// StorageUsageSnapshot is derived from an object listing and never persisted.
type StorageUsageSnapshot struct {
	ObjectCount int64   `json:"object_count"`
	UsedBytes   int64   `json:"used_bytes"`
	LimitBytes  int64   `json:"limit_bytes"`
	Percentage  float64 `json:"percentage"`
	IsNearFull  bool    `json:"is_near_full"`
}

// EvictionResult reports one eviction run.
type EvictionResult struct {
	DeletedCount int   `json:"deleted_count"`
	Failed       int   `json:"failed"`
	StartBytes   int64 `json:"start_bytes"`
	EndBytes     int64 `json:"end_bytes"`
	TargetBytes  int64 `json:"target_bytes"`
	// DeletedByOwner counts evicted records per owning user.
	DeletedByOwner map[string]int `json:"-"`
}

// StoredObject is one entry of a non-recursive object listing. IsPrefix marks a
// "directory" (per-user prefix) rather than an object.
type StoredObject struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	IsPrefix bool   `json:"is_prefix"`
}
