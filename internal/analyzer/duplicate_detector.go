package analyzer

import (
	"sort"

	"github.com/ludo-technologies/dupscan/internal/constants"
)

// DuplicateDetectorConfig holds the detection and truncation policy
type DuplicateDetectorConfig struct {
	// WindowSize is the number of normalized lines per fingerprinted window
	WindowSize int

	// CommentMarker prefixes lines dropped during normalization
	CommentMarker string

	// Output caps. Truncation always follows ranking order.
	MaxGroups            int
	MaxFilesPerGroup     int
	MaxLocationsPerGroup int
}

// DefaultDuplicateDetectorConfig returns the standard detection policy
func DefaultDuplicateDetectorConfig() *DuplicateDetectorConfig {
	return &DuplicateDetectorConfig{
		WindowSize:           constants.DefaultWindowSize,
		CommentMarker:        constants.DefaultCommentMarker,
		MaxGroups:            constants.DefaultMaxGroups,
		MaxFilesPerGroup:     constants.DefaultMaxFilesPerGroup,
		MaxLocationsPerGroup: constants.DefaultMaxLocationsPerGroup,
	}
}

// DuplicateCandidate is a fingerprint seen at two or more locations
type DuplicateCandidate struct {
	Fingerprint string
	Occurrences []Occurrence // discovery order
}

// Count returns the number of occurrences
func (c *DuplicateCandidate) Count() int {
	return len(c.Occurrences)
}

// Files returns the distinct files of the candidate in first-appearance order
func (c *DuplicateCandidate) Files() []string {
	seen := make(map[string]bool, len(c.Occurrences))
	files := make([]string, 0, len(c.Occurrences))
	for _, occ := range c.Occurrences {
		if seen[occ.File] {
			continue
		}
		seen[occ.File] = true
		files = append(files, occ.File)
	}
	return files
}

// GroupSummary is the truncated, reportable view of a candidate
type GroupSummary struct {
	Fingerprint string
	Count       int
	Files       []string
	Locations   []string
}

// DetectionSummary is the ranked and capped detection result
type DetectionSummary struct {
	// TotalGroups counts every duplicate candidate before the group cap
	TotalGroups int
	Groups      []GroupSummary
}

// DuplicateDetector groups windows by fingerprint.
//
// Windows must be added in discovery order (file order, then window order
// within a file); ranking ties and every truncation rely on that order.
// AddWindows is not safe for concurrent use: parallel callers build windows
// independently with BuildWindows and merge them here sequentially.
type DuplicateDetector struct {
	config      *DuplicateDetectorConfig
	occurrences map[string][]Occurrence
	order       []string
	windows     int
}

// NewDuplicateDetector creates a detector with the given config
func NewDuplicateDetector(config *DuplicateDetectorConfig) *DuplicateDetector {
	if config == nil {
		config = DefaultDuplicateDetectorConfig()
	}
	return &DuplicateDetector{
		config:      config,
		occurrences: make(map[string][]Occurrence),
	}
}

// Config returns the detector configuration
func (d *DuplicateDetector) Config() *DuplicateDetectorConfig {
	return d.config
}

// AddSource normalizes, windows and records a whole file. It returns the
// number of windows the file contributed.
func (d *DuplicateDetector) AddSource(file, content string) int {
	lines := NormalizeSource(content, d.config.CommentMarker)
	windows := BuildWindows(file, lines, d.config.WindowSize)
	d.AddWindows(windows)
	return len(windows)
}

// AddWindows records windows under their fingerprints
func (d *DuplicateDetector) AddWindows(windows []Window) {
	for _, w := range windows {
		existing, ok := d.occurrences[w.Fingerprint]
		if !ok {
			d.order = append(d.order, w.Fingerprint)
		}
		d.occurrences[w.Fingerprint] = append(existing, w.Occurrence)
	}
	d.windows += len(windows)
}

// WindowCount returns the number of windows recorded so far
func (d *DuplicateDetector) WindowCount() int {
	return d.windows
}

// FingerprintCount returns the number of distinct fingerprints recorded
func (d *DuplicateDetector) FingerprintCount() int {
	return len(d.order)
}

// Candidates returns every fingerprint with two or more occurrences, ranked
// by occurrence count descending. Equal counts keep discovery order.
func (d *DuplicateDetector) Candidates() []*DuplicateCandidate {
	var candidates []*DuplicateCandidate
	for _, fp := range d.order {
		occs := d.occurrences[fp]
		if len(occs) < 2 {
			continue
		}
		candidates = append(candidates, &DuplicateCandidate{
			Fingerprint: fp,
			Occurrences: occs,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Count() > candidates[j].Count()
	})

	return candidates
}

// Summarize ranks the candidates and applies the output caps
func (d *DuplicateDetector) Summarize() *DetectionSummary {
	candidates := d.Candidates()

	summary := &DetectionSummary{
		TotalGroups: len(candidates),
		Groups:      []GroupSummary{},
	}

	for _, c := range capSlice(candidates, d.config.MaxGroups) {
		occs := capSlice(c.Occurrences, d.config.MaxLocationsPerGroup)
		locations := make([]string, len(occs))
		for i, occ := range occs {
			locations[i] = occ.String()
		}

		summary.Groups = append(summary.Groups, GroupSummary{
			Fingerprint: c.Fingerprint,
			Count:       c.Count(),
			Files:       capSlice(c.Files(), d.config.MaxFilesPerGroup),
			Locations:   locations,
		})
	}

	return summary
}

// capSlice returns at most n leading elements; n <= 0 means no cap
func capSlice[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
