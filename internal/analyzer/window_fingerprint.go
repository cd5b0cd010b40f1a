package analyzer

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Occurrence locates a window: the file it came from (relative to the scan
// root) and the original line number of its first normalized line.
type Occurrence struct {
	File string
	Line int
}

// String renders the occurrence as "<relative_path>:<line_number>"
func (o Occurrence) String() string {
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

// Window is a fingerprinted run of consecutive normalized lines of one file.
type Window struct {
	Fingerprint string
	Occurrence  Occurrence
}

// Fingerprint hashes the concatenated text of lines (no delimiter) with
// BLAKE3-256 and returns the hex digest.
func Fingerprint(lines []NormalizedLine) string {
	h := blake3.New()
	for _, line := range lines {
		_, _ = h.Write([]byte(line.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// BuildWindows slides a window of size lines over the normalized lines of a
// single file with stride 1. N lines yield N-size+1 windows; fewer than size
// lines yield none. Windows never span two files.
func BuildWindows(file string, lines []NormalizedLine, size int) []Window {
	if size <= 0 || len(lines) < size {
		return nil
	}

	windows := make([]Window, 0, len(lines)-size+1)
	for i := 0; i <= len(lines)-size; i++ {
		windows = append(windows, Window{
			Fingerprint: Fingerprint(lines[i : i+size]),
			Occurrence: Occurrence{
				File: file,
				Line: lines[i].Number,
			},
		})
	}
	return windows
}
