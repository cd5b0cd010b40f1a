package constants

// Duplicate detection policy. These are the fixed thresholds of the detector;
// the configuration layer exposes each one with these values as defaults.
const (
	// DefaultWindowSize is the number of consecutive normalized lines hashed
	// together. Blocks shorter than this are never reported.
	DefaultWindowSize = 6

	// DefaultMaxFiles bounds the number of source files processed per scan.
	// Files discovered past this cap are excluded without notice in the report.
	DefaultMaxFiles = 1000

	// DefaultMaxGroups is the number of ranked duplicate groups emitted.
	DefaultMaxGroups = 10

	// DefaultMaxFilesPerGroup caps the distinct file list of each emitted group.
	DefaultMaxFilesPerGroup = 5

	// DefaultMaxLocationsPerGroup caps the location list of each emitted group.
	DefaultMaxLocationsPerGroup = 5
)

// Source language defaults
const (
	DefaultSourceExtension = ".py"
	DefaultCommentMarker   = "#"
)

// DuplicateToolName identifies the analysis kind in every report.
const DuplicateToolName = "duplicate_code"
