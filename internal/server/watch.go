package server

import (
	"context"
	"os"
	"time"
)

// DefaultWatchInterval is the poll interval used by Watch when none is given.
const DefaultWatchInterval = 500 * time.Millisecond

type fileStamp struct {
	mod  time.Time
	size int64
}

func (a fileStamp) same(b fileStamp) bool {
	return a.size == b.size && a.mod.Equal(b.mod)
}

func stat(path string) (fileStamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{mod: fi.ModTime(), size: fi.Size()}, nil
}

// Watch polls path and reloads whenever its modification time or size
// changes. Failed reloads are logged and keep the previous charts. Watch
// returns when ctx is done.
func (s *Server) Watch(ctx context.Context, path string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	last, err := stat(path)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		cur, err := stat(path)
		if err != nil {
			s.logger.Warn("stat definition file", "path", path, "err", err)
			continue
		}
		if cur.same(last) {
			continue
		}
		last = cur

		s.logger.Info("definition changed", "path", path)
		if err := s.Reload(ctx); err != nil {
			s.logger.Error("reload failed, keeping previous charts", "err", err)
		}
	}
}
