package models

import "io"

// UploadedFile is a single file taken from an upload request.
type UploadedFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// StoredFile describes an upload after it was written to disk.
type StoredFile struct {
	Name       string
	StoredPath string
	Size       int64
}

// UploadResult pairs persisted file names with the replies produced for them.
// Both slices share the submission order.
type UploadResult struct {
	Files   []string `json:"files"`
	Replies []string `json:"replies"`
}
