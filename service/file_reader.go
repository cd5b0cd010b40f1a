package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/dupscan/domain"
)

// ErrReadTimeout is wrapped by reads that exceed their per-file timeout
var ErrReadTimeout = errors.New("read timed out")

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// ValidateRoot checks that root exists and is a directory
func (f *FileReaderImpl) ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewDirectoryNotFoundError(root, err)
		}
		return domain.NewInvalidInputError(fmt.Sprintf("cannot access directory: %s", root), err)
	}
	if !info.IsDir() {
		return domain.NewInvalidInputError(fmt.Sprintf("not a directory: %s", root), nil)
	}
	return nil
}

// CollectSourceFiles walks root in lexical order and returns the first
// maxFiles files whose name ends in extension. Unreadable subdirectories are
// skipped; a failure on root itself is returned.
func (f *FileReaderImpl) CollectSourceFiles(root, extension string, excludePatterns []string, maxFiles int) (*domain.FileCollection, error) {
	collection := &domain.FileCollection{}

	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Skip unreadable entries and keep walking
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && f.isExcluded(rel, excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), extension) || f.isExcluded(rel, excludePatterns) {
			return nil
		}

		if maxFiles > 0 && len(collection.Files) >= maxFiles {
			collection.Truncated = true
			return filepath.SkipAll
		}

		collection.Files = append(collection.Files, domain.SourceFile{
			Path:    path,
			RelPath: rel,
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, domain.NewReadError(root, err)
	}

	return collection, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewReadError(path, err)
	}
	return content, nil
}

// ReadFileWithTimeout reads a file, giving up once timeout elapses or ctx is
// done. A zero timeout only honours ctx.
func (f *FileReaderImpl) ReadFileWithTimeout(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return f.ReadFile(path)
	}

	readCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type readResult struct {
		content []byte
		err     error
	}
	done := make(chan readResult, 1)
	go func() {
		content, err := f.ReadFile(path)
		done <- readResult{content: content, err: err}
	}()

	select {
	case res := <-done:
		return res.content, res.err
	case <-readCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewReadError(path, fmt.Errorf("%w after %s", ErrReadTimeout, timeout))
	}
}

// isExcluded matches a slash-separated relative path against the exclude
// globs, both as a whole and by base name
func (f *FileReaderImpl) isExcluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(rel)); matched {
			return true
		}
	}
	return false
}
