package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileSystemStore {
	t.Helper()
	store, err := NewFileSystemStore(&FileSystemConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/documents",
	})
	require.NoError(t, err)
	return store
}

func TestFileSystemStore_StoreAndGet(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New()

	result, err := store.Store(context.Background(), &StoreRequest{
		DocumentID:     id,
		ProposalNumber: "P-1001",
		PDFData:        []byte("%PDF-1.4 test"),
	})
	require.NoError(t, err)
	assert.Contains(t, result.Key, "P-1001-"+id.String()+".pdf")
	assert.Equal(t, "/api/v1/documents/"+result.Key, result.URL)
	assert.Equal(t, int64(13), result.Size)

	rc, err := store.Get(context.Background(), result.Key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test"), data)
}

func TestFileSystemStore_StoreValidation(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name string
		req  *StoreRequest
	}{
		{name: "nil request", req: nil},
		{name: "missing document ID", req: &StoreRequest{PDFData: []byte("x")}},
		{name: "empty data", req: &StoreRequest{DocumentID: uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Store(context.Background(), tt.req)
			var ae *ArchiveError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, ErrCodeStoreFailed, ae.Code)
		})
	}
}

func TestFileSystemStore_GetRejectsEscapingKeys(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"../outside.pdf", "/etc/passwd", "a/../../b.pdf"} {
		_, err := store.Get(context.Background(), key)
		var ae *ArchiveError
		require.ErrorAs(t, err, &ae, key)
		assert.Equal(t, ErrCodeInvalidKey, ae.Code, key)
	}
}

func TestFileSystemStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "2025/01/nope.pdf")
	var ae *ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ErrCodeNotFound, ae.Code)
}

func TestFileSystemStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Store(context.Background(), &StoreRequest{
		DocumentID:     uuid.New(),
		ProposalNumber: "P-2",
		PDFData:        []byte("%PDF"),
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), result.Key))
	require.NoError(t, store.Delete(context.Background(), result.Key))
}

func TestFileSystemStore_CleanupOlderThan(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Store(context.Background(), &StoreRequest{
		DocumentID:     uuid.New(),
		ProposalNumber: "P-3",
		PDFData:        []byte("%PDF"),
	})
	require.NoError(t, err)

	// Age the file on disk, then collect it.
	full := filepath.Join(store.config.BasePath, filepath.FromSlash(result.Key))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(full, old, old))

	deleted, err := store.CleanupOlderThan(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = store.Get(context.Background(), result.Key)
	assert.Error(t, err)
}

func TestArchiveFileName(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "P-1001-"+id.String()+".pdf", archiveFileName("P-1001", id))
	assert.Equal(t, "P_1001_a-"+id.String()+".pdf", archiveFileName("P/1001 a", id))
	assert.Equal(t, "proposal-"+id.String()+".pdf", archiveFileName("", id))
}
