package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStorage writes into the output tree rooted at Root. Paths passed to its
// methods are slash separated and relative to Root.
type FSStorage struct {
	Root string
}

func NewFSStorage(root string) *FSStorage {
	return &FSStorage{Root: root}
}

// Path returns the absolute location of a root-relative path.
func (s *FSStorage) Path(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// MkdirAll creates a root-relative directory and its parents.
func (s *FSStorage) MkdirAll(rel string) error {
	if err := os.MkdirAll(s.Path(rel), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return nil
}

// WriteFile replaces the file at rel with content.
func (s *FSStorage) WriteFile(rel string, content []byte) error {
	return s.writeFileAbsolute(s.Path(rel), content)
}

// CopyFile copies src byte-for-byte to rel.
func (s *FSStorage) CopyFile(src, rel string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	fullPath := s.Path(rel)
	if err := s.prepare(fullPath); err != nil {
		return err
	}
	out, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// Create opens rel for writing, truncating any previous content.
func (s *FSStorage) Create(rel string) (*os.File, error) {
	fullPath := s.Path(rel)
	if err := s.prepare(fullPath); err != nil {
		return nil, err
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return f, nil
}

func (s *FSStorage) writeFileAbsolute(fullPath string, content []byte) error {
	if err := s.prepare(fullPath); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// prepare creates the parent directory and removes any existing file or
// symlink so the write does not follow a stale link out of the tree.
func (s *FSStorage) prepare(fullPath string) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing: %w", err)
	}
	return nil
}
