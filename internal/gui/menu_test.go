package gui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMenuHandler(onSave func(string) error) *MenuHandler {
	logger, _ := logtest.NewNullLogger()
	mh := NewMenuHandler(nil, "transformed.png", []string{".png", ".jpg"}, "native", logger)
	mh.SetCallbacks(nil, onSave, nil)
	return mh
}

// createEmpty mimics the file the save dialog creates before calling back.
func createEmpty(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestWithDefaultExtension(t *testing.T) {
	assert.Equal(t, "/tmp/out.png", withDefaultExtension("/tmp/out.png", "transformed.jpg"))
	assert.Equal(t, "/tmp/out.jpg", withDefaultExtension("/tmp/out", "transformed.jpg"))
	assert.Equal(t, "/tmp/out.jpg", withDefaultExtension("/tmp/out", "transformed"))
}

func TestSaveToAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	chosen := filepath.Join(dir, "result")
	createEmpty(t, chosen)

	var saved string
	mh := newTestMenuHandler(func(path string) error {
		saved = path
		return os.WriteFile(path, []byte("image"), 0o644)
	})
	mh.saveTo(chosen)

	assert.Equal(t, chosen+".png", saved)
	assert.NoFileExists(t, chosen, "bare name left by the dialog is removed")
	assert.FileExists(t, saved)
}

func TestSaveToFailureLeavesNoEmptyFile(t *testing.T) {
	tests := []struct {
		name   string
		chosen string
	}{
		{name: "with extension", chosen: "result.gif"},
		{name: "without extension", chosen: "result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chosen := filepath.Join(dir, tt.chosen)
			createEmpty(t, chosen)

			mh := newTestMenuHandler(func(path string) error {
				createEmpty(t, path)
				return errors.New("unsupported output format")
			})
			mh.saveTo(chosen)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestRemoveIfEmpty(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.png")
	createEmpty(t, empty)
	require.NoError(t, removeIfEmpty(empty))
	assert.NoFileExists(t, empty)

	written := filepath.Join(dir, "written.png")
	require.NoError(t, os.WriteFile(written, []byte{1}, 0o644))
	require.NoError(t, removeIfEmpty(written))
	assert.FileExists(t, written, "files with content are kept")

	assert.NoError(t, removeIfEmpty(filepath.Join(dir, "missing.png")))
	assert.NoError(t, removeIfEmpty(dir), "directories are left alone")
	assert.DirExists(t, dir)
}

func TestAboutDetails(t *testing.T) {
	mh := newTestMenuHandler(nil)
	assert.Equal(t, []string{
		"Transform backend: native",
		"Opens: .png .jpg",
	}, mh.aboutDetails())
}
