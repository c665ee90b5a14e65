package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores rendered chart output as JSON envelopes under a
// directory, one file per key. Expired or unreadable entries are removed on
// read and reported as misses.
//
// Writes go through a temp file and a rename, so a preview server reading
// an entry never sees it half written.
type FileCache struct {
	dir string
}

// NewFileCache creates the directory if needed and returns a cache rooted
// there.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// envelope is the on-disk form of an entry. Expires is a Unix time in
// nanoseconds; zero means the entry never expires.
type envelope struct {
	Data    []byte `json:"data"`
	Expires int64  `json:"expires,omitempty"`
}

func (e envelope) expired(now time.Time) bool {
	return e.Expires != 0 && now.UnixNano() > e.Expires
}

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.expired(time.Now()) {
		// Corrupt or stale, drop it.
		_ = os.Remove(path)
		return nil, false, nil
	}
	return env.Data, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	env := envelope{Data: data}
	if ttl > 0 {
		env.Expires = time.Now().Add(ttl).UnixNano()
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// path maps a key to <dir>/<2 hex>/<62 hex>.json so no directory grows too
// large.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
