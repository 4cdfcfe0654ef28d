// Package copier duplicates directory trees onto the local filesystem.
package copier

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	cp "github.com/otiai10/copy"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
)

// CopyDir recursively copies src into dst, depth first and one entry at a time.
//
// File contents and permission bits are reproduced, missing destination
// directories are created and same-named destination files are overwritten.
// Symlinks are followed and their targets copied. If src is a regular file it
// is copied to dst. Failures are returned as a CopyError; whatever was copied
// before the failure stays on disk.
func CopyDir(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return dsberrors.CopyError(err)
	}

	opts := cp.Options{
		PreserveTimes:     false,
		PreserveOwner:     false,
		PermissionControl: cp.PerservePermission,
		// Copy what a symlink points at rather than the link itself
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Deep
		},
	}
	if err := cp.Copy(src, dst, opts); err != nil {
		return dsberrors.CopyError(fmt.Errorf("copy %s to %s: %w", src, dst, err))
	}
	return nil
}

// CopyFS copies the tree rooted at src inside fsys to dst on disk.
//
// Embedded file systems report read-only modes, so copies are made owner
// writable. Files for which executable returns true are made 0755.
func CopyFS(fsys fs.FS, src, dst string, executable func(name string) bool) error {
	opts := cp.Options{
		FS:                fsys,
		PermissionControl: cp.AddPermission(0200),
	}
	if err := cp.Copy(src, dst, opts); err != nil {
		return dsberrors.CopyError(fmt.Errorf("extract %s to %s: %w", src, dst, err))
	}
	if executable == nil {
		return nil
	}

	err := fs.WalkDir(fsys, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !executable(d.Name()) {
			return nil
		}
		return os.Chmod(filepath.Join(dst, filepath.FromSlash(relPath(src, p))), 0755)
	})
	if err != nil {
		return dsberrors.CopyError(fmt.Errorf("set permissions under %s: %w", dst, err))
	}
	return nil
}

// relPath returns p relative to root, both slash separated fs.FS paths.
func relPath(root, p string) string {
	root = path.Clean(root)
	if root == "." {
		return p
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
}
