package shortcodes

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FilesystemSnippetStore stores each snippet as a plain text file.
//
// Directory structure:
//
//	<root>/
//	  <snippet-name>.txt
//	  ...
type FilesystemSnippetStore struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// NewFilesystemSnippetStore creates a filesystem-backed store rooted at root.
// The directory is created if it doesn't exist.
func NewFilesystemSnippetStore(root string) (*FilesystemSnippetStore, error) {
	if root == "" {
		return nil, NewConfigError(ErrMsgMissingDir, MetaKeyDriver, SnippetDriverFilesystem)
	}

	if err := os.MkdirAll(root, SnippetDirPerms); err != nil {
		return nil, NewStorageError(ErrMsgStorageWriteFailed, root, err)
	}

	return &FilesystemSnippetStore{root: root}, nil
}

// Root returns the store's directory.
func (s *FilesystemSnippetStore) Root() string {
	return s.root
}

// Get implements SnippetStore
func (s *FilesystemSnippetStore) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateSnippetName(name); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", NewStorageError(ErrMsgStorageClosed, name, nil)
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", NewSnippetNotFoundError(name)
		}
		return "", NewStorageError(ErrMsgStorageQueryFailed, name, err)
	}
	return string(data), nil
}

// Put implements SnippetStore. The file is written to a temporary name
// and renamed into place.
func (s *FilesystemSnippetStore) Put(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSnippetName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError(ErrMsgStorageClosed, name, nil)
	}

	target := s.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), SnippetFilePerms); err != nil {
		return NewStorageError(ErrMsgStorageWriteFailed, name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return NewStorageError(ErrMsgStorageWriteFailed, name, err)
	}
	return nil
}

// Delete implements SnippetStore
func (s *FilesystemSnippetStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSnippetName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError(ErrMsgStorageClosed, name, nil)
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewSnippetNotFoundError(name)
		}
		return NewStorageError(ErrMsgStorageWriteFailed, name, err)
	}
	return nil
}

// List implements SnippetStore
func (s *FilesystemSnippetStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageError(ErrMsgStorageClosed, s.root, nil)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, NewStorageError(ErrMsgStorageQueryFailed, s.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SnippetFileExtension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), SnippetFileExtension))
	}
	sort.Strings(names)
	return names, nil
}

// Close implements SnippetStore
func (s *FilesystemSnippetStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *FilesystemSnippetStore) path(name string) string {
	return filepath.Join(s.root, name+SnippetFileExtension)
}
