package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	cfg "github.com/langtutor/content-pipeline/config"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

// LocalStorage keeps objects on the local filesystem. The default
// backend for single-process deployments.
type LocalStorage struct {
	baseDir string
	logger  logger.Logger
}

func NewLocalStorage(baseDir string, log logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, logger: log}, nil
}

func GetClient(log logger.Logger) (*LocalStorage, error) {
	pipelineCfg := cfg.GetPipelineConfig()
	return NewLocalStorage(filepath.Join(pipelineCfg.UploadDir, "content-pipeline"), log)
}

// Store writes the content under a fresh uuid-based key, keeping the
// original extension so content-type detection still works.
func (s *LocalStorage) Store(ctx context.Context, reader io.Reader, filename string) (string, error) {
	key := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(s.baseDir, key)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return key, nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.baseDir, key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.baseDir, key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Path returns the filesystem path for a stored key, for collaborators
// that need to hand a real file to an external tool.
func (s *LocalStorage) Path(key string) string {
	return filepath.Join(s.baseDir, key)
}

func (s *LocalStorage) CleanupBefore(ctx context.Context, threshold time.Time) error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to list storage directory: %w", err)
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(threshold) {
			if err := os.Remove(filepath.Join(s.baseDir, entry.Name())); err != nil {
				s.logger.Error("Failed to delete expired file",
					logger.String("key", entry.Name()),
					logger.Error(err),
				)
				continue
			}
			s.logger.Info("Deleted expired file",
				logger.String("key", entry.Name()),
				logger.Time("lastModified", info.ModTime()),
			)
		}
	}
	return nil
}
