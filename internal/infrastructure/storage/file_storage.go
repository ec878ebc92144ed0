package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
)

// LocalBlobStorage stores document bytes on the local filesystem under a
// base directory. Handles are relative paths like "uploads/<uuid>.pdf";
// the uuid name keeps uploads from colliding or leaking original names
// into the filesystem.
type LocalBlobStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalBlobStorage creates a new LocalBlobStorage
func NewLocalBlobStorage(baseDir string, logger *zap.Logger) *LocalBlobStorage {
	return &LocalBlobStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Store writes the content under a uuid-derived name and returns the handle
func (s *LocalBlobStorage) Store(content []byte, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	handle := filepath.Join("uploads", uuid.NewString()+ext)

	fullPath := filepath.Join(s.baseDir, handle)
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create upload directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File stored",
		zap.String("handle", handle),
		zap.Int("size", len(content)))
	return handle, nil
}

// Delete removes the blob for the handle. Deleting a handle that no
// longer exists is not an error.
func (s *LocalBlobStorage) Delete(handle string) error {
	fullPath := filepath.Join(s.baseDir, handle)
	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Debug("File deleted", zap.String("handle", handle))
	return nil
}

// validatePath checks that the path resolves inside baseDir
func (s *LocalBlobStorage) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}
	return nil
}

// Verify interface compliance
var _ port.BlobStorage = (*LocalBlobStorage)(nil)
