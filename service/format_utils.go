package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/dupscan/domain"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data), nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth = 40
	LabelWidth  = 20
	ItemPadding = 4
)

// Theme defines the styles used by the text formatter
type Theme struct {
	Title    lipgloss.Style
	Count    lipgloss.Style
	Hash     lipgloss.Style
	Location lipgloss.Style
	Clean    lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
}

// NewTheme builds the color scheme for renderer. Styles only emit escape
// codes when the renderer's output supports them.
func NewTheme(renderer *lipgloss.Renderer) Theme {
	return Theme{
		Title:    renderer.NewStyle().Bold(true),
		Count:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Hash:     renderer.NewStyle().Foreground(lipgloss.Color("241")),
		Location: renderer.NewStyle().Foreground(lipgloss.Color("39")),
		Clean:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
		Error:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Dim:      renderer.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// FormatUtils provides shared formatting utilities
type FormatUtils struct {
	theme Theme
}

// NewFormatUtils creates format utilities styled for stdout
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{theme: NewTheme(lipgloss.DefaultRenderer())}
}

// NewFormatUtilsForWriter creates format utilities styled for w
func NewFormatUtilsForWriter(w io.Writer) *FormatUtils {
	return &FormatUtils{theme: NewTheme(lipgloss.NewRenderer(w))}
}

// Theme returns the styles in use
func (f *FormatUtils) Theme() Theme {
	return f.theme
}

// FormatMainHeader creates a standardized main header
func (f *FormatUtils) FormatMainHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(f.theme.Title.Render(title) + "\n")
	builder.WriteString(strings.Repeat("=", HeaderWidth) + "\n\n")
	return builder.String()
}

// FormatSectionHeader creates a standardized section header
func (f *FormatUtils) FormatSectionHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(strings.ToUpper(title) + "\n")
	builder.WriteString(strings.Repeat("-", len(title)) + "\n")
	return builder.String()
}

// FormatLabel creates a consistently formatted label with right alignment
func (f *FormatUtils) FormatLabel(label string, value interface{}) string {
	padding := LabelWidth - len(label)
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", padding), label, value)
}

// FormatDuration formats duration in milliseconds consistently
func (f *FormatUtils) FormatDuration(durationMs int64) string {
	return fmt.Sprintf("%dms", durationMs)
}

// ShortHash abbreviates a fingerprint for display
func (f *FormatUtils) ShortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
