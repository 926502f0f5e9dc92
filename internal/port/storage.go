package port

import (
	"context"
	"io"
	"time"
)

// UploadInput describes one archived report object. Keys are relative to the
// bucket the storage was opened against.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts the report archive.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
