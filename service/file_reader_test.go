package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/dupscan/domain"
)

// Test helpers
func createTempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

func createTestFile(t *testing.T, dirPath, fileName, content string) string {
	t.Helper()
	filePath := filepath.Join(dirPath, fileName)

	err := os.MkdirAll(filepath.Dir(filePath), 0755)
	require.NoError(t, err)

	err = os.WriteFile(filePath, []byte(content), 0644)
	require.NoError(t, err)

	return filePath
}

func relPaths(collection *domain.FileCollection) []string {
	paths := make([]string, 0, len(collection.Files))
	for _, f := range collection.Files {
		paths = append(paths, f.RelPath)
	}
	return paths
}

func TestFileReader_ValidateRoot(t *testing.T) {
	fr := NewFileReader()
	tmpDir := createTempDir(t)
	file := createTestFile(t, tmpDir, "main.py", "x = 1")

	tests := []struct {
		name     string
		root     string
		wantErr  string
		wantCode string
	}{
		{name: "existing directory", root: tmpDir},
		{name: "missing directory", root: filepath.Join(tmpDir, "missing"), wantErr: "directory not found", wantCode: domain.ErrCodeFileNotFound},
		{name: "regular file", root: file, wantErr: "not a directory", wantCode: domain.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fr.ValidateRoot(tt.root)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
		})
	}
}

func TestFileReader_CollectSourceFiles(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		excludes  []string
		extension string
		expected  []string
	}{
		{
			name:      "lexical walk order",
			files:     []string{"b.py", "a.py", "pkg/z.py", "pkg/a.py", "c.txt"},
			extension: ".py",
			expected:  []string{"a.py", "b.py", "pkg/a.py", "pkg/z.py"},
		},
		{
			name:      "extension match is exact",
			files:     []string{"stub.pyi", "upper.PY", "mod.py"},
			extension: ".py",
			expected:  []string{"mod.py"},
		},
		{
			name:      "hidden and virtualenv directories are scanned",
			files:     []string{".hidden/a.py", "venv/lib/b.py"},
			extension: ".py",
			expected:  []string{".hidden/a.py", "venv/lib/b.py"},
		},
		{
			name:      "exclude patterns prune directories and files",
			files:     []string{"src/app.py", "tests/test_app.py", "src/gen_pb2.py"},
			excludes:  []string{"tests", "**/*_pb2.py"},
			extension: ".py",
			expected:  []string{"src/app.py"},
		},
		{
			name:      "other extensions",
			files:     []string{"a.go", "b.py"},
			extension: ".go",
			expected:  []string{"a.go"},
		},
		{
			name:      "empty tree",
			extension: ".py",
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := createTempDir(t)
			for _, f := range tt.files {
				createTestFile(t, tmpDir, f, "x = 1\n")
			}

			fr := NewFileReader()
			collection, err := fr.CollectSourceFiles(tmpDir, tt.extension, tt.excludes, 1000)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, relPaths(collection))
			assert.False(t, collection.Truncated)
			for _, f := range collection.Files {
				assert.Equal(t, filepath.Join(tmpDir, filepath.FromSlash(f.RelPath)), f.Path)
			}
		})
	}
}

func TestFileReader_CollectSourceFiles_Cap(t *testing.T) {
	tmpDir := createTempDir(t)
	for i := 0; i < 12; i++ {
		createTestFile(t, tmpDir, fmt.Sprintf("m%02d.py", i), "x = 1\n")
	}

	fr := NewFileReader()

	collection, err := fr.CollectSourceFiles(tmpDir, ".py", nil, 10)
	require.NoError(t, err)
	assert.Len(t, collection.Files, 10)
	assert.True(t, collection.Truncated)
	assert.Equal(t, "m09.py", collection.Files[9].RelPath)

	collection, err = fr.CollectSourceFiles(tmpDir, ".py", nil, 12)
	require.NoError(t, err)
	assert.Len(t, collection.Files, 12)
	assert.False(t, collection.Truncated)
}

func TestFileReader_CollectSourceFiles_MissingRoot(t *testing.T) {
	fr := NewFileReader()

	_, err := fr.CollectSourceFiles(filepath.Join(createTempDir(t), "nope"), ".py", nil, 10)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeReadError, domain.ErrorCode(err))
}

func TestFileReader_ReadFile(t *testing.T) {
	tmpDir := createTempDir(t)
	path := createTestFile(t, tmpDir, "a.py", "print('hi')\n")
	fr := NewFileReader()

	content, err := fr.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(content))

	_, err = fr.ReadFile(filepath.Join(tmpDir, "missing.py"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
	assert.Contains(t, err.Error(), "file not found")

	_, err = fr.ReadFile(tmpDir)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeReadError, domain.ErrorCode(err))
}

func TestFileReader_ReadFileWithTimeout(t *testing.T) {
	tmpDir := createTempDir(t)
	path := createTestFile(t, tmpDir, "a.py", "x = 1\n")
	fr := NewFileReader()

	t.Run("no timeout", func(t *testing.T) {
		content, err := fr.ReadFileWithTimeout(context.Background(), path, 0)
		require.NoError(t, err)
		assert.Equal(t, "x = 1\n", string(content))
	})

	t.Run("generous timeout", func(t *testing.T) {
		content, err := fr.ReadFileWithTimeout(context.Background(), path, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "x = 1\n", string(content))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := fr.ReadFileWithTimeout(ctx, path, time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
