package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger is a no-op logger for tests
type MockLogger struct {
	t *testing.T
}

func (m *MockLogger) Debug(format string, v ...any) {}
func (m *MockLogger) Info(format string, v ...any)  {}
func (m *MockLogger) Warn(format string, v ...any)  {}
func (m *MockLogger) Error(format string, v ...any) {}
func (m *MockLogger) Fatal(format string, v ...any) {}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestLoadIgnoreRules(t *testing.T) {
	t.Run("default rules only", func(t *testing.T) {
		fs := &FileScanner{logger: &MockLogger{t}}
		ignore := fs.loadIgnoreRules()
		require.NotNil(t, ignore)

		assert.True(t, ignore.MatchesPath(".git/config"))
		assert.True(t, ignore.MatchesPath("sub/.git/HEAD"))
		assert.False(t, ignore.MatchesPath("src/Main.java"))
		assert.False(t, ignore.MatchesPath("target/site/jacoco/jacoco.xml"))
	})

	t.Run("extra patterns", func(t *testing.T) {
		fs := &FileScanner{logger: &MockLogger{t}, patterns: []string{".DS_Store", "*.swp"}}
		ignore := fs.loadIgnoreRules()

		assert.True(t, ignore.MatchesPath("src/.DS_Store"))
		assert.True(t, ignore.MatchesPath("pom.xml.swp"))
		assert.True(t, ignore.MatchesPath(".git/objects/ab"))
		assert.False(t, ignore.MatchesPath("pom.xml"))
	})
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pom.xml":                     "<project/>",
		"src/main/java/A.java":        "class A {}",
		".git/HEAD":                   "ref: refs/heads/main",
		".git/objects/aa/bbbb":        "blob",
		"module/.DS_Store":            "junk",
		"module/src/main/java/B.java": "class B {}",
	})

	fs := NewFileScanner(&MockLogger{t}, ".DS_Store")
	files, err := fs.ListFiles(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"module/src/main/java/B.java",
		"pom.xml",
		"src/main/java/A.java",
	}, files)
}

func TestListFilesMissingRoot(t *testing.T) {
	fs := NewFileScanner(&MockLogger{t})
	_, err := fs.ListFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFindDir(t *testing.T) {
	hasFile := func(name string) func(string) bool {
		return func(dir string) bool {
			info, err := os.Stat(filepath.Join(dir, name))
			return err == nil && !info.IsDir()
		}
	}

	t.Run("pre-order lexical match", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"b/pom.xml":   "",
			"a/x/pom.xml": "",
			"README.md":   "",
		})
		fs := NewFileScanner(&MockLogger{t})

		dir, ok, err := fs.FindDir(root, hasFile("pom.xml"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a/x", dir)
	})

	t.Run("root matches first", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"pom.xml":     "",
			"sub/pom.xml": "",
		})
		fs := NewFileScanner(&MockLogger{t})

		dir, ok, err := fs.FindDir(root, hasFile("pom.xml"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, ".", dir)
	})

	t.Run("git metadata is never searched", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{".git/pom.xml": ""})
		fs := NewFileScanner(&MockLogger{t})

		_, ok, err := fs.FindDir(root, hasFile("pom.xml"))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestWalkUnreadableDirectory(t *testing.T) {
	newTree := func(t *testing.T) string {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"a.txt":    "a",
			"b/B.java": "class B {}",
			"c/C.java": "class C {}",
		})
		return root
	}
	// b is listed by its parent but gone by the time it is read
	removeB := func(root string, visited *[]string) WalkFunc {
		return func(relPath string, d fs.DirEntry) error {
			*visited = append(*visited, relPath)
			if relPath == "a.txt" {
				return os.RemoveAll(filepath.Join(root, "b"))
			}
			return nil
		}
	}

	t.Run("walk skips it", func(t *testing.T) {
		root := newTree(t)
		var visited []string
		err := NewFileScanner(&MockLogger{t}).Walk(root, removeB(root, &visited))
		require.NoError(t, err)
		assert.Contains(t, visited, "c/C.java")
	})

	t.Run("strict walk fails", func(t *testing.T) {
		root := newTree(t)
		var visited []string
		err := NewFileScanner(&MockLogger{t}).WalkStrict(root, removeB(root, &visited))
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.NotContains(t, visited, "c/C.java")
	})
}
