package errors_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dev-session-buddy/internal/copier"
	"github.com/Aman-CERP/dev-session-buddy/internal/document"
	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/preflight"
)

// TestErrorWrapping_DocumentLoad verifies load failures surface as ConfigLoadError.
func TestErrorWrapping_DocumentLoad(t *testing.T) {
	_, err := document.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, dsberrors.ErrConfigLoad))
	assert.Equal(t, dsberrors.ErrCodeConfigLoad, dsberrors.GetCode(err))
	assert.True(t, strings.Contains(err.Error(), "missing.yaml"), "message should name the file: %s", err)
}

// TestErrorWrapping_Copier verifies copy failures surface as CopyError.
func TestErrorWrapping_Copier(t *testing.T) {
	err := copier.CopyDir(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)

	assert.True(t, errors.Is(err, dsberrors.ErrCopy))
	assert.Equal(t, dsberrors.CategoryIO, dsberrors.GetCategory(err))
}

// TestErrorWrapping_Preflight verifies marker errors are wrapped with context.
func TestErrorWrapping_Preflight(t *testing.T) {
	// A regular file where the marker directory should be forces MkdirAll to fail.
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, document.Save(base, document.NewMap()))

	err := preflight.MarkPassed(filepath.Join(base, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marker")
}
