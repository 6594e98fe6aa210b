// Package models contains domain types for the study assistant backend.
package models

import "time"

// FileStatus represents where an uploaded file is in its lifecycle.
type FileStatus string

const (
	FileStatusUploading  FileStatus = "uploading"
	FileStatusProcessing FileStatus = "processing"
	FileStatusCompleted  FileStatus = "completed"
	FileStatusError      FileStatus = "error"
)

// FileDescriptor is what a drop or picker interaction reports about a file.
// No content is ever read.
type FileDescriptor struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// UploadedFile is the per-file record driven through the upload simulation.
type UploadedFile struct {
	ID          string     `json:"id" msgpack:"id"`
	Name        string     `json:"name" msgpack:"name"`
	Size        int64      `json:"size" msgpack:"size"`
	Type        string     `json:"type" msgpack:"type"`
	Status      FileStatus `json:"status" msgpack:"status"`
	Progress    float64    `json:"progress" msgpack:"progress"` // 0-100
	Category    string     `json:"category,omitempty" msgpack:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty" msgpack:"tags,omitempty"`
	Error       string     `json:"error,omitempty" msgpack:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" msgpack:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" msgpack:"completedAt,omitempty"`
}

// Terminal reports whether the record will not change any further.
func (f UploadedFile) Terminal() bool {
	return f.Status == FileStatusCompleted || f.Status == FileStatusError
}

// UploadStats summarises the visible upload list.
type UploadStats struct {
	Total      int   `json:"total"`
	Uploading  int   `json:"uploading"`
	Processing int   `json:"processing"`
	Completed  int   `json:"completed"`
	Failed     int   `json:"failed"`
	TotalBytes int64 `json:"totalBytes"`
}
