package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipRoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "src", "A.java"), []byte("class A {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "gradlew"), []byte("#!/bin/sh"), 0755))

	zipPath := filepath.Join(t.TempDir(), "repo.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	require.NoError(t, AddFileToZip(zw, "src/A.java", src, "repo/src/A.java"))
	require.NoError(t, AddFileToZip(zw, "gradlew", src, "repo/gradlew"))
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	dest := t.TempDir()
	require.NoError(t, ExtractZip(zipPath, dest))

	content, err := os.ReadFile(filepath.Join(dest, "repo", "src", "A.java"))
	require.NoError(t, err)
	assert.Equal(t, "class A {}", string(content))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dest, "repo", "gradlew"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0100, "executable bit must survive")
	}
}

func TestExtractZipRejectsEscapes(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "evil.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("../escape.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	assert.Error(t, ExtractZip(zipPath, t.TempDir()))
}

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()
	got, err := SafeJoin(base, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "a", "b.txt"), got)

	_, err = SafeJoin(base, "../../etc/passwd")
	assert.Error(t, err)
}

func TestResetDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmp_mine")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "leftover"), 0755))

	require.NoError(t, ResetDir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}

func TestGenerateUUID(t *testing.T) {
	id, err := GenerateUUID()
	require.NoError(t, err)
	assert.True(t, IsValidUUID(id))
	assert.False(t, IsValidUUID("not-a-uuid"))
}
