package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileSystemConfig contains configuration for file system archiving.
type FileSystemConfig struct {
	// BasePath is the root directory for archived documents.
	BasePath string
	// BaseURL is the URL prefix for accessing archived documents.
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStore archives rendered documents on the local file system
// under {base}/{year}/{month}/{proposal}-{id}.pdf.
type FileSystemStore struct {
	config *FileSystemConfig
	logger *zap.Logger
}

// NewFileSystemStore creates a file system backed archive.
func NewFileSystemStore(config *FileSystemConfig) (*FileSystemStore, error) {
	if config == nil {
		config = &FileSystemConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "/data/proposals"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/api/v1/documents"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewArchiveError(ErrCodeStoreFailed,
			fmt.Sprintf("failed to create archive directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStore{config: config, logger: logger}, nil
}

// Store writes the document under the dated directory layout.
func (s *FileSystemStore) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewArchiveError(ErrCodeStoreFailed, "operation cancelled", ctx.Err())
	default:
	}

	if req == nil {
		return nil, NewArchiveError(ErrCodeStoreFailed, "store request is nil", nil)
	}
	if req.DocumentID == uuid.Nil {
		return nil, NewArchiveError(ErrCodeStoreFailed, "document ID is required", nil)
	}
	if len(req.PDFData) == 0 {
		return nil, NewArchiveError(ErrCodeStoreFailed, "document data is empty", nil)
	}

	now := time.Now()
	dirPath := filepath.Join(
		s.config.BasePath,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
	)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, NewArchiveError(ErrCodeStoreFailed, "failed to create directory", err)
	}

	fileName := archiveFileName(req.ProposalNumber, req.DocumentID)
	if err := os.WriteFile(filepath.Join(dirPath, fileName), req.PDFData, 0644); err != nil {
		return nil, NewArchiveError(ErrCodeStoreFailed, "failed to write document", err)
	}

	key := filepath.ToSlash(filepath.Join(
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fileName,
	))
	url := s.GetURL(key)

	s.logger.Info("document archived",
		zap.String("key", key),
		zap.Int("size", len(req.PDFData)),
		zap.String("url", url))

	return &StoreResult{Key: key, URL: url, Size: int64(len(req.PDFData))}, nil
}

// Get opens an archived document, refusing keys that escape the base path.
func (s *FileSystemStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, NewArchiveError(ErrCodeStoreFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolveKey(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewArchiveError(ErrCodeNotFound, "document not found", err)
		}
		return nil, NewArchiveError(ErrCodeStoreFailed, "failed to open document", err)
	}
	return file, nil
}

// Delete removes an archived document. A missing file is not an error.
func (s *FileSystemStore) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return NewArchiveError(ErrCodeStoreFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolveKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return NewArchiveError(ErrCodeStoreFailed, "failed to delete document", err)
	}

	s.logger.Info("document deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan removes archived PDFs older than the given age.
func (s *FileSystemStore) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if info.IsDir() || filepath.Ext(path) != ".pdf" {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
				s.logger.Debug("deleted old document", zap.String("path", path))
			}
		}
		return nil
	})

	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return deleted, NewArchiveError(ErrCodeStoreFailed, "cleanup walk failed", err)
	}

	s.logger.Info("archive cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))

	return deleted, nil
}

// GetURL returns the accessible URL for a stored key.
func (s *FileSystemStore) GetURL(key string) string {
	cleanKey := filepath.ToSlash(filepath.Clean(key))
	return fmt.Sprintf("%s/%s", s.config.BaseURL, cleanKey)
}

// resolveKey validates a key and maps it to an absolute path under the
// base directory.
func (s *FileSystemStore) resolveKey(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || containsDotDot(key) {
		s.logger.Warn("blocked potentially malicious archive key", zap.String("key", key))
		return "", NewArchiveError(ErrCodeInvalidKey, "invalid key", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, clean)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewArchiveError(ErrCodeStoreFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewArchiveError(ErrCodeStoreFailed, "failed to resolve document path", err)
	}
	if absPath != absBase && !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("archive key escape attempt blocked",
			zap.String("key", key),
			zap.String("absPath", absPath))
		return "", NewArchiveError(ErrCodeInvalidKey, "invalid key", nil)
	}
	return fullPath, nil
}

// archiveFileName builds a safe file name from the proposal number and the
// document ID. Unsafe characters in the number are replaced.
func archiveFileName(number string, id uuid.UUID) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, number)
	if safe == "" {
		safe = "proposal"
	}
	return safe + "-" + id.String() + ".pdf"
}

// containsDotDot checks if a key contains ".." components before any
// normalization.
func containsDotDot(key string) bool {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// Ensure FileSystemStore implements Store
var _ Store = (*FileSystemStore)(nil)
