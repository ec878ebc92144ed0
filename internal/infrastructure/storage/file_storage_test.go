package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalBlobStorage_Store(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	blobs := NewLocalBlobStorage(tempDir, logger)

	t.Run("stores content under a uuid handle keeping the extension", func(t *testing.T) {
		handle, err := blobs.Store([]byte("%PDF-1.5"), "timesheet March.pdf")

		require.NoError(t, err)
		assert.NotEmpty(t, handle)
		assert.True(t, strings.HasSuffix(handle, ".pdf"), "handle %q should keep the extension", handle)
		assert.NotContains(t, handle, "timesheet", "original name must not leak into the handle")

		content, err := os.ReadFile(filepath.Join(tempDir, handle))
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.5"), content)
	})

	t.Run("distinct uploads get distinct handles", func(t *testing.T) {
		h1, err := blobs.Store([]byte("a"), "same.pdf")
		require.NoError(t, err)
		h2, err := blobs.Store([]byte("b"), "same.pdf")
		require.NoError(t, err)

		assert.NotEqual(t, h1, h2)
	})
}

func TestLocalBlobStorage_Delete(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	blobs := NewLocalBlobStorage(tempDir, logger)

	t.Run("removes a stored blob", func(t *testing.T) {
		handle, err := blobs.Store([]byte("bytes"), "doc.docx")
		require.NoError(t, err)

		require.NoError(t, blobs.Delete(handle))
		assert.NoFileExists(t, filepath.Join(tempDir, handle))
	})

	t.Run("deleting a missing handle is not an error", func(t *testing.T) {
		assert.NoError(t, blobs.Delete("uploads/gone.pdf"))
	})

	t.Run("rejects handles escaping the base directory", func(t *testing.T) {
		err := blobs.Delete("../outside.pdf")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "escapes")
	})
}
