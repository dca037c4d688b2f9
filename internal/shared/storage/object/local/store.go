package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"ats-checker/internal/shared/util"
)

// Store keeps uploaded documents on the local filesystem.
// Keys look like "<user>/<uuid>-<sanitized name>" relative to the base dir.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	safe, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, "", err
	}
	key := filepath.ToSlash(filepath.Join(util.HashUserKey(userID), uuid.NewString()+"-"+safe))

	dst := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", 0, "", fmt.Errorf("create user dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", 0, "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(dst)
		return "", 0, "", fmt.Errorf("write file: %w", err)
	}
	return key, n, detectMime(safe), nil
}

func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.baseDir, filepath.FromSlash(storageKey)))
}

func detectMime(fileName string) string {
	mt := mime.TypeByExtension(filepath.Ext(fileName))
	if mt == "" {
		return "application/octet-stream"
	}
	return mt
}
