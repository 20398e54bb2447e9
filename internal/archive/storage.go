// Package archive stores graph and matrix exports in blob storage so
// downloads and audits do not have to rebuild them.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageClient abstracts blob storage for graph and matrix exports.
type StorageClient interface {
	PutGraph(ctx context.Context, tenantID, exportID string, data []byte) error
	GetGraph(ctx context.Context, tenantID, exportID string) ([]byte, error)
	PutMatrix(ctx context.Context, tenantID, exportID string, data []byte) error
	GetMatrix(ctx context.Context, tenantID, exportID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(tenantID, kind, id string) string {
	return filepath.Join(s.BaseDir, tenantID, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutGraph stores a graph export blob.
func (s *LocalStorage) PutGraph(ctx context.Context, tenantID, exportID string, data []byte) error {
	return s.put(s.path(tenantID, "graphs", exportID), data)
}

// GetGraph retrieves a graph export blob.
func (s *LocalStorage) GetGraph(ctx context.Context, tenantID, exportID string) ([]byte, error) {
	return os.ReadFile(s.path(tenantID, "graphs", exportID))
}

// PutMatrix stores a matrix export blob.
func (s *LocalStorage) PutMatrix(ctx context.Context, tenantID, exportID string, data []byte) error {
	return s.put(s.path(tenantID, "matrices", exportID), data)
}

// GetMatrix retrieves a matrix export blob.
func (s *LocalStorage) GetMatrix(ctx context.Context, tenantID, exportID string) ([]byte, error) {
	return os.ReadFile(s.path(tenantID, "matrices", exportID))
}
