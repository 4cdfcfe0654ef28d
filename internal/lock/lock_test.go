package lock

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestFileLock_LockUnlock(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	if err := l.LockContext(context.Background()); err != nil {
		t.Fatalf("LockContext() failed: %v", err)
	}
	if !l.IsLocked() {
		t.Error("IsLocked() should be true after LockContext()")
	}

	if _, err := os.Stat(l.Path()); os.IsNotExist(err) {
		t.Error("Lock file was not created")
	}

	if err := l.Unlock(); err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}
	if l.IsLocked() {
		t.Error("IsLocked() should be false after Unlock()")
	}
}

func TestFileLock_CreatesMissingDirectory(t *testing.T) {
	dir := t.TempDir() + "/cache/templates/v1"
	l := New(dir)

	if err := l.LockContext(context.Background()); err != nil {
		t.Fatalf("LockContext() failed: %v", err)
	}
	defer func() { _ = l.Unlock() }()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("lock directory not created: %v", err)
	}
}

func TestFileLock_UnlockWithoutLock(t *testing.T) {
	l := New(t.TempDir())

	if err := l.Unlock(); err != nil {
		t.Errorf("Unlock() without lock should not error: %v", err)
	}
}

func TestFileLock_TryLock_AlreadyLocked(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	second := New(dir)

	acquired, err := first.TryLock()
	if err != nil || !acquired {
		t.Fatalf("first TryLock() = %v, %v", acquired, err)
	}
	defer func() { _ = first.Unlock() }()

	acquired, err = second.TryLock()
	if err != nil {
		t.Fatalf("second TryLock() failed: %v", err)
	}
	if acquired {
		t.Error("second TryLock() should fail while the lock is held")
	}
}

func TestFileLock_LockContext_Cancelled(t *testing.T) {
	dir := t.TempDir()
	holder := New(dir)
	if err := holder.LockContext(context.Background()); err != nil {
		t.Fatalf("LockContext() failed: %v", err)
	}
	defer func() { _ = holder.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	waiter := New(dir)
	if err := waiter.LockContext(ctx); err == nil {
		t.Error("LockContext() should fail when the context expires")
	}
	if waiter.IsLocked() {
		t.Error("waiter should not hold the lock")
	}
}

func TestFileLock_LockContext_WaitsForRelease(t *testing.T) {
	dir := t.TempDir()
	holder := New(dir)
	if err := holder.LockContext(context.Background()); err != nil {
		t.Fatalf("LockContext() failed: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = holder.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	waiter := New(dir)
	if err := waiter.LockContext(ctx); err != nil {
		t.Fatalf("LockContext() should succeed after release: %v", err)
	}
	_ = waiter.Unlock()
}
