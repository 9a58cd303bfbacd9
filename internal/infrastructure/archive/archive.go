// Package archive stores rendered proposal documents so they can be
// re-downloaded or attached to outbound mail without re-rendering.
package archive

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// StoreRequest contains the parameters for archiving a rendered document.
type StoreRequest struct {
	// DocumentID uniquely identifies this rendered artifact.
	DocumentID uuid.UUID
	// ProposalNumber is the business identifier shown in the document.
	ProposalNumber string
	// PDFData is the complete rendered document.
	PDFData []byte
}

// StoreResult describes where the document was archived.
type StoreResult struct {
	// Key is the storage key relative to the archive root.
	Key string
	// URL is the address the document can be fetched from.
	URL string
	// Size is the stored size in bytes.
	Size int64
}

// Store is the archive contract for rendered documents.
type Store interface {
	// Store persists a rendered document and returns its key and URL.
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get opens an archived document by its key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an archived document.
	Delete(ctx context.Context, key string) error
	// CleanupOlderThan removes documents older than the given age and
	// reports how many were removed.
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	// GetURL returns the accessible URL for a stored key.
	GetURL(key string) string
}

// ArchiveError represents a failure inside the archive.
type ArchiveError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ArchiveError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// Error codes for archive failures
const (
	ErrCodeStoreFailed = "ARCHIVE_STORE_FAILED"
	ErrCodeNotFound    = "ARCHIVE_NOT_FOUND"
	ErrCodeInvalidKey  = "ARCHIVE_INVALID_KEY"
)

// NewArchiveError creates a new ArchiveError
func NewArchiveError(code, message string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
