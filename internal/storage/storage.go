// Package storage abstracts the S3-compatible object store that holds
// published questionnaire exports. Implementations stream; nothing touches local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// PutOptions describe an upload. Size is -1 when unknown.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Object is what the store reports back after an upload.
type Object struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	StoredAt    time.Time
}

// Storage is the object store used for published exports.
type Storage interface {
	// Put uploads r under key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (Object, error)
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL for key.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ExportKey is the object key of a questionnaire's published workbook.
// Each publish overwrites the previous one.
func ExportKey(questionnaireID string) string {
	return fmt.Sprintf("exports/%s/responses.xlsx", questionnaireID)
}
