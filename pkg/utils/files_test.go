package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestGetPathInfo(t *testing.T) {
	dir := t.TempDir()
	rel := filepath.Join(dir, "roms", "..", "game.ch8")

	full, parent, err := GetPathInfo(rel)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game.ch8"), full)
	assert.Equal(t, dir, parent)
}

func TestReadProgram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x00, 0xE0, 0x12, 0x00}, 0o644))

	data, err := ReadProgram(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00}, data)
}

func TestReadProgramEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ch8")
	assert.NoError(t, os.WriteFile(path, nil, 0o644))

	data, err := ReadProgram(path)
	assert.NoError(t, err)
	assert.Empty(t, data)
}

func TestReadProgramMissing(t *testing.T) {
	_, err := ReadProgram(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.ErrorContains(t, err, "reading program file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
