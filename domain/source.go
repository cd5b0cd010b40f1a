package domain

import (
	"context"
	"time"
)

// SourceFile is a discovered file, addressed both absolutely and relative to
// the scan root. RelPath is slash-separated on every platform.
type SourceFile struct {
	Path    string `json:"path" yaml:"path"`
	RelPath string `json:"rel_path" yaml:"rel_path"`
}

// FileCollection is the capped result of file discovery
type FileCollection struct {
	// Files holds at most the requested number of files, in walk order
	Files []SourceFile

	// Truncated is set when matching files beyond the cap were left out
	Truncated bool
}

// FileOutcome is the per-file result of reading and normalizing one file.
// Either Skip is set or the file contributed its normalized lines.
type FileOutcome struct {
	File  SourceFile
	Lines int
	Skip  SkipReason
	Err   error
}

// Skipped reports whether the file contributed nothing to the scan
func (o *FileOutcome) Skipped() bool {
	return o.Skip != ""
}

// FileReader defines the interface for discovering and reading source files
type FileReader interface {
	// CollectSourceFiles walks root in lexical order and returns the first
	// maxFiles regular files ending in extension whose relative path matches
	// none of excludePatterns
	CollectSourceFiles(root, extension string, excludePatterns []string, maxFiles int) (*FileCollection, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// ReadFileWithTimeout reads a file, giving up after timeout (0 = no limit)
	ReadFileWithTimeout(ctx context.Context, path string, timeout time.Duration) ([]byte, error)

	// ValidateRoot checks that root exists and is a directory
	ValidateRoot(root string) error
}
