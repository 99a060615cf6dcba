// Package storage publishes generated documents to object storage.
package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string // публичный URL объекта
	ETag     string
}

// FileUploader is implemented by the R2 uploader. A nil FileUploader means
// publishing is switched off.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}
