package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// ownerFile marks a directory as a gridplot cache namespace and records the
// invocation that created it.
const ownerFile = ".owner"

// DirStore is a directory-backed artifact store. Each artifact is one file
// named <index>.png inside a namespace directory created at open time and
// removed on Close unless retention is requested.
type DirStore struct {
	dir   string
	owner string

	mu     sync.Mutex
	closed bool
}

// OpenDir creates a fresh cache namespace at dir. If dir is empty,
// DefaultDir is used. A directory that already exists is an error: a stale
// namespace from an unclean run is reported, never silently reused, and a
// directory without an owner marker is treated as caller-managed and left
// alone.
func OpenDir(dir string) (*DirStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	if _, err := os.Stat(dir); err == nil {
		if IsOwned(dir) {
			return nil, fmt.Errorf("%w: %s looks like a leftover from an interrupted run, remove it and retry", ErrNamespaceExists, dir)
		}
		return nil, fmt.Errorf("%w: %s is not a gridplot cache, refusing to touch it", ErrNamespaceExists, dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat cache dir %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	owner := uuid.NewString()
	if err := os.WriteFile(filepath.Join(dir, ownerFile), []byte(owner+"\n"), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("write owner marker: %w", err)
	}

	return &DirStore{dir: dir, owner: owner}, nil
}

// Dir returns the namespace directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Put writes one artifact to <dir>/<index>.png.
func (s *DirStore) Put(ctx context.Context, index int, data []byte) (Handle, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return Handle{}, ErrClosed
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%d.png", index))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Handle{}, fmt.Errorf("write artifact %d: %w", index, err)
	}
	return Handle{Index: index, Location: path}, nil
}

// Get reads an artifact back. Missing files map to ErrNotFound.
func (s *DirStore) Get(ctx context.Context, h Handle) ([]byte, error) {
	data, err := os.ReadFile(h.Location)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("artifact %d at %s: %w", h.Index, h.Location, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %d: %w", h.Index, err)
	}
	return data, nil
}

// Close removes the namespace and everything in it, unless retain is true.
func (s *DirStore) Close(retain bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if retain {
		return nil
	}
	return os.RemoveAll(s.dir)
}

// IsOwned reports whether dir carries a gridplot owner marker.
func IsOwned(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ownerFile))
	return err == nil
}

// TempDir returns a unique, not-yet-existing namespace path under the
// system temp directory. Useful for callers that render concurrently and
// cannot share the working-directory default.
func TempDir() string {
	return filepath.Join(os.TempDir(), "gridplot-"+uuid.NewString())
}

// Ensure DirStore implements Store.
var _ Store = (*DirStore)(nil)
