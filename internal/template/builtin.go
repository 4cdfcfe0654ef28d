package template

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/Aman-CERP/dev-session-buddy/internal/copier"
	"github.com/Aman-CERP/dev-session-buddy/internal/lock"
	"github.com/Aman-CERP/dev-session-buddy/pkg/version"
	"github.com/Aman-CERP/dev-session-buddy/templates"
)

// extractedMarker is written once a built-in extraction completes.
const extractedMarker = ".extracted"

// DefaultCacheDir returns the directory that holds extracted built-in
// templates, $XDG_CACHE_HOME/dev-session-buddy/templates.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "dev-session-buddy", "templates")
}

// Builtin is an extracted copy of the embedded templates.
type Builtin struct {
	// Root is the templates root to pass to NewLocator.
	Root string

	lock *lock.FileLock
}

// Release lets other processes refresh the extraction. Calling it more than
// once is a no-op.
func (b *Builtin) Release() error {
	if b.lock == nil || !b.lock.IsLocked() {
		return nil
	}
	slog.Debug("releasing template cache", slog.String("lock", b.lock.Path()))
	return b.lock.Unlock()
}

// OpenBuiltin extracts the embedded templates of this build into the default
// cache directory. Development builds refresh the extraction on every run.
func OpenBuiltin(ctx context.Context) (*Builtin, error) {
	return ExtractBuiltin(ctx, templates.FS, DefaultCacheDir(), version.Short(), version.IsDev())
}

// ExtractBuiltin copies fsys into <cacheDir>/<ver>. Without refresh the
// extraction happens once per version and later calls reuse it.
//
// With refresh the previous extraction is replaced, and the returned Builtin
// keeps the cache lock until Release so no other process rewrites the tree
// while it is being read.
func ExtractBuiltin(ctx context.Context, fsys fs.FS, cacheDir, ver string, refresh bool) (*Builtin, error) {
	if ver == "" {
		return nil, fmt.Errorf("extract built-in templates: empty version")
	}
	root := filepath.Join(cacheDir, ver)

	l := lock.New(root)
	if err := acquire(ctx, l); err != nil {
		return nil, fmt.Errorf("lock template cache: %w", err)
	}
	b := &Builtin{Root: root, lock: l}
	if !refresh {
		defer func() { _ = b.Release() }()
	}

	marker := filepath.Join(root, extractedMarker)
	if !refresh {
		if _, err := os.Stat(marker); err == nil {
			return b, nil
		}
	}

	slog.Debug("extracting built-in templates",
		slog.String("root", root),
		slog.String("version", ver),
		slog.Bool("refresh", refresh))

	if err := extract(fsys, root, marker); err != nil {
		_ = b.Release()
		return nil, err
	}
	return b, nil
}

// acquire takes l, logging when another process already holds it.
func acquire(ctx context.Context, l *lock.FileLock) error {
	acquired, err := l.TryLock()
	if err != nil {
		return err
	}
	if acquired {
		return nil
	}
	slog.Debug("waiting for template cache lock", slog.String("lock", l.Path()))
	return l.LockContext(ctx)
}

func extract(fsys fs.FS, root, marker string) error {
	if err := clearTemplates(root); err != nil {
		return err
	}
	if err := copier.CopyFS(fsys, ".", root, isScript); err != nil {
		return err
	}
	stamp := []byte(time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(marker, stamp, 0644); err != nil {
		return fmt.Errorf("write extraction marker: %w", err)
	}
	return nil
}

// clearTemplates removes previously extracted templates from root, leaving
// the lock file in place.
func clearTemplates(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read template cache: %w", err)
	}
	for _, entry := range entries {
		if entry.Name() == lock.FileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
			return fmt.Errorf("clear template cache: %w", err)
		}
	}
	return nil
}

func isScript(name string) bool {
	return strings.HasSuffix(name, ".sh")
}
