package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Service stores uploaded payment proofs and hands back an opaque
// reference. Callers persist only the reference, never the bytes.
type Service interface {
	Save(ctx context.Context, reader io.Reader, contentType string) (string, error)
}

type localService struct {
	basePath string
	maxSize  int64
}

// NewLocalService returns a Service that writes files under basePath.
func NewLocalService(basePath string, maxSize int64) (Service, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localService{basePath: basePath, maxSize: maxSize}, nil
}

func (s *localService) Save(ctx context.Context, reader io.Reader, contentType string) (string, error) {
	name, err := randomFilename(contentType)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(reader, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if written > s.maxSize {
		os.Remove(dst.Name())
		return "", fmt.Errorf("upload exceeds maximum size of %d bytes", s.maxSize)
	}

	return name, nil
}

func randomFilename(contentType string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}

	ext := ".bin"
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		ext = ".jpg"
	case strings.Contains(contentType, "png"):
		ext = ".png"
	case strings.Contains(contentType, "pdf"):
		ext = ".pdf"
	}

	return fmt.Sprintf("proof_%d_%s%s", time.Now().Unix(), hex.EncodeToString(buf), ext), nil
}
