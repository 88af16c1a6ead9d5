package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage handles file storage on the local filesystem: generated invoice
// PDFs, exported reports and the uploaded invoice template image.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// SaveBytes writes data at an explicit relative path, creating parent
// directories and overwriting any previous version. Used for invoice PDFs and
// report exports whose names are deterministic (regeneration replaces them).
func (s *LocalStorage) SaveBytes(relativePath string, data []byte) error {
	filePath := filepath.Join(s.basePath, relativePath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Upload saves an uploaded file under subDir with a unique name and returns
// its relative path
func (s *LocalStorage) Upload(file multipart.File, header *multipart.FileHeader, subDir string) (string, error) {
	dir := filepath.Join(s.basePath, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	filename := uuid.NewString() + ext
	filePath := filepath.Join(dir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// Open returns a file for reading
func (s *LocalStorage) Open(relativePath string) (*os.File, error) {
	return os.Open(filepath.Join(s.basePath, relativePath))
}

// Delete removes a file
func (s *LocalStorage) Delete(relativePath string) error {
	return os.Remove(filepath.Join(s.basePath, relativePath))
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, relativePath))
	return err == nil
}

// GetFullPath returns the absolute path for serving files
func (s *LocalStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.basePath, relativePath)
}

// ValidTemplateContentTypes returns allowed MIME types for template uploads
func ValidTemplateContentTypes() map[string]bool {
	return map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}
}

// MaxUploadSize returns the maximum allowed upload size (10MB)
func MaxUploadSize() int64 {
	return 10 * 1024 * 1024
}
