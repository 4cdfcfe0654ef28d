package template

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dev-session-buddy/templates"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"minimal/config-template.yaml": {Data: []byte("name: minimal\n"), Mode: 0444},
		"minimal/session-start.sh":     {Data: []byte("#!/bin/sh\n"), Mode: 0444},
	}
}

func TestExtractBuiltin_WritesTemplates(t *testing.T) {
	cache := t.TempDir()

	b, err := ExtractBuiltin(context.Background(), testFS(), cache, "1.2.3", false)
	require.NoError(t, err)
	root := b.Root

	assert.Equal(t, filepath.Join(cache, "1.2.3"), root)
	assert.FileExists(t, filepath.Join(root, "minimal", BaseConfigFile))
	assert.FileExists(t, filepath.Join(root, extractedMarker))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(root, "minimal", "session-start.sh"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}

	frameworks, err := NewLocator(root).Available()
	require.NoError(t, err)
	assert.Equal(t, []string{"minimal"}, frameworks)
}

func TestExtractBuiltin_ReusesReleaseExtraction(t *testing.T) {
	cache := t.TempDir()
	b, err := ExtractBuiltin(context.Background(), testFS(), cache, "1.2.3", false)
	require.NoError(t, err)

	// Given: a local edit to the extracted tree
	edited := filepath.Join(b.Root, "minimal", BaseConfigFile)
	require.NoError(t, os.WriteFile(edited, []byte("name: edited\n"), 0644))

	// When: extracting the same version again
	_, err = ExtractBuiltin(context.Background(), testFS(), cache, "1.2.3", false)
	require.NoError(t, err)

	// Then: the existing extraction is kept
	data, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.Equal(t, "name: edited\n", string(data))
}

func TestExtractBuiltin_RefreshReplacesTree(t *testing.T) {
	cache := t.TempDir()
	b, err := ExtractBuiltin(context.Background(), testFS(), cache, "dev", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "dev"), b.Root)
	require.NoError(t, b.Release())

	stale := filepath.Join(b.Root, "stale", BaseConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("name: stale\n"), 0644))

	again, err := ExtractBuiltin(context.Background(), testFS(), cache, "dev", true)
	require.NoError(t, err)
	defer func() { _ = again.Release() }()

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(b.Root, "minimal", BaseConfigFile))
}

func TestExtractBuiltin_RefreshHoldsLockUntilRelease(t *testing.T) {
	// Given: a refreshed extraction that is still being read
	cache := t.TempDir()
	reader, err := ExtractBuiltin(context.Background(), testFS(), cache, "dev", true)
	require.NoError(t, err)

	// When: another run tries to refresh it
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = ExtractBuiltin(ctx, testFS(), cache, "dev", true)

	// Then: it waits for the reader and leaves the tree alone
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.FileExists(t, filepath.Join(reader.Root, "minimal", BaseConfigFile))

	// And: after Release the refresh goes through
	require.NoError(t, reader.Release())
	next, err := ExtractBuiltin(context.Background(), testFS(), cache, "dev", true)
	require.NoError(t, err)
	require.NoError(t, next.Release())
	require.NoError(t, next.Release(), "second Release is a no-op")
}

func TestExtractBuiltin_ReleaseVersionDoesNotHoldLock(t *testing.T) {
	cache := t.TempDir()
	_, err := ExtractBuiltin(context.Background(), testFS(), cache, "1.2.3", false)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	b, err := ExtractBuiltin(ctx, testFS(), cache, "1.2.3", false)

	require.NoError(t, err)
	assert.NoError(t, b.Release())
}

func TestExtractBuiltin_EmptyVersion(t *testing.T) {
	_, err := ExtractBuiltin(context.Background(), testFS(), t.TempDir(), "", true)

	assert.Error(t, err)
}

func TestExtractBuiltin_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The lock is free, so a cancelled context only matters while waiting.
	_, err := ExtractBuiltin(ctx, testFS(), t.TempDir(), "1.0.0", false)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestEmbeddedTemplates_ApplyCleanly(t *testing.T) {
	b, err := ExtractBuiltin(context.Background(), templates.FS, t.TempDir(), "test", false)
	require.NoError(t, err)
	root := b.Root

	frameworks, err := NewLocator(root).Available()
	require.NoError(t, err)
	assert.Equal(t, []string{"minimal", "vue"}, frameworks)

	for _, fw := range frameworks {
		for _, preset := range Presets() {
			t.Run(fw+"/"+preset, func(t *testing.T) {
				projectDir := t.TempDir()
				res, err := newTestManager(root).ApplyWithResult(projectDir, fw, preset)
				require.NoError(t, err)

				assert.FileExists(t, filepath.Join(projectDir, "session-start.sh"))
				assert.FileExists(t, filepath.Join(projectDir, ".gitignore"))
				assert.Equal(t, fw, pathValue(t, res.Config, "framework"))
				assert.Equal(t, fw == FrameworkVue, len(res.Generated) == 1)
			})
		}
	}
}
