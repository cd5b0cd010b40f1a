package analyzer

import (
	"strings"
)

// lineEndings folds "\r\n" and bare "\r" into "\n"
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizedLine is a source line that survived normalization, paired with
// its 1-based line number in the original file.
type NormalizedLine struct {
	Number int
	Text   string
}

// NormalizeSource splits content into lines on "\n", "\r\n" or "\r", trims
// each one and keeps only lines that are non-empty and do not start with
// commentMarker.
//
// Normalization is lossy: blank lines and comment lines never take part in
// matching, and indentation differences between otherwise identical
// statements are ignored. Line numbers always refer to the original file.
func NormalizeSource(content string, commentMarker string) []NormalizedLine {
	if content == "" {
		return nil
	}

	rawLines := strings.Split(lineEndings.Replace(content), "\n")
	lines := make([]NormalizedLine, 0, len(rawLines))

	for i, raw := range rawLines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if commentMarker != "" && strings.HasPrefix(trimmed, commentMarker) {
			continue
		}
		lines = append(lines, NormalizedLine{
			Number: i + 1,
			Text:   trimmed,
		})
	}

	return lines
}
