package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ludo-technologies/dupscan/domain"
)

// DuplicateOutputFormatter implements the domain.DuplicateOutputFormatter interface
type DuplicateOutputFormatter struct {
	utils *FormatUtils
}

// NewDuplicateOutputFormatter creates a new duplicate output formatter
func NewDuplicateOutputFormatter() *DuplicateOutputFormatter {
	return &DuplicateOutputFormatter{utils: NewFormatUtils()}
}

// Format renders the response as a string
func (f *DuplicateOutputFormatter) Format(response *domain.DuplicateResponse, format domain.OutputFormat) (string, error) {
	var builder strings.Builder
	if err := f.render(response, format, &builder, false); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// Write writes the rendered response to writer. Markdown written to a
// terminal is rendered with glamour.
func (f *DuplicateOutputFormatter) Write(response *domain.DuplicateResponse, format domain.OutputFormat, writer io.Writer) error {
	return f.render(response, format, writer, isTerminalWriter(writer))
}

func (f *DuplicateOutputFormatter) render(response *domain.DuplicateResponse, format domain.OutputFormat, writer io.Writer, terminal bool) error {
	if response == nil || response.Report == nil {
		return domain.NewOutputError("no report to format", nil)
	}

	switch format {
	case domain.OutputFormatText, "":
		return f.formatAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response.Report)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response.Report)
	case domain.OutputFormatCSV:
		return f.formatAsCSV(response.Report, writer)
	case domain.OutputFormatMarkdown:
		return f.formatAsMarkdown(response, writer, terminal)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatAsText formats the response as human-readable text, styled for
// whatever writer it ends up in
func (f *DuplicateOutputFormatter) formatAsText(response *domain.DuplicateResponse, writer io.Writer) error {
	report := response.Report
	utils := NewFormatUtilsForWriter(writer)
	theme := utils.Theme()

	var b strings.Builder
	b.WriteString(utils.FormatMainHeader("Duplicate Code Report"))

	if report.IsError() {
		fmt.Fprintf(&b, "%s %s\n", theme.Error.Render("Scan failed:"), report.Error)
		_, err := io.WriteString(writer, b.String())
		return err
	}

	if stats := response.Statistics; stats != nil {
		b.WriteString(utils.FormatSectionHeader("Summary"))
		b.WriteString(utils.FormatLabel("Files scanned", stats.FilesScanned))
		b.WriteString(utils.FormatLabel("Files skipped", stats.FilesSkipped))
		if stats.Truncated {
			b.WriteString(utils.FormatLabel("File cap reached", "yes"))
		}
		b.WriteString(utils.FormatLabel("Windows hashed", stats.WindowsHashed))
		b.WriteString(utils.FormatLabel("Duplicate blocks", report.TotalDuplicates))
		b.WriteString(utils.FormatLabel("Duration", utils.FormatDuration(response.Duration)))
		b.WriteString("\n")
	}

	if !report.HasIssues() {
		b.WriteString(theme.Clean.Render("No duplicate blocks found.") + "\n")
		_, err := io.WriteString(writer, b.String())
		return err
	}

	b.WriteString(utils.FormatSectionHeader("Duplicates"))
	for i, group := range report.Duplicates {
		fmt.Fprintf(&b, "%d. %s %s\n",
			i+1,
			theme.Count.Render(fmt.Sprintf("%dx", group.Count)),
			theme.Hash.Render(utils.ShortHash(group.Hash)))
		for _, loc := range group.Locations {
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", ItemPadding), theme.Location.Render(loc))
		}
		if hidden := group.Count - len(group.Locations); hidden > 0 {
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", ItemPadding), theme.Dim.Render(fmt.Sprintf("... and %d more", hidden)))
		}
	}

	if shown := len(report.Duplicates); report.TotalDuplicates > shown {
		fmt.Fprintf(&b, "\n%s\n", theme.Dim.Render(fmt.Sprintf("Showing %d of %d duplicate blocks.", shown, report.TotalDuplicates)))
	}

	_, err := io.WriteString(writer, b.String())
	return err
}

// formatAsCSV writes one row per emitted location
func (f *DuplicateOutputFormatter) formatAsCSV(report *domain.DuplicateReport, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write([]string{"rank", "hash", "count", "file", "line"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for i, group := range report.Duplicates {
		for _, loc := range group.Locations {
			file, line := splitLocation(loc)
			record := []string{
				strconv.Itoa(i + 1),
				group.Hash,
				strconv.Itoa(group.Count),
				file,
				line,
			}
			if err := csvWriter.Write(record); err != nil {
				return domain.NewOutputError("failed to write CSV record", err)
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}

// formatAsMarkdown writes a markdown report, rendered for terminals
func (f *DuplicateOutputFormatter) formatAsMarkdown(response *domain.DuplicateResponse, writer io.Writer, terminal bool) error {
	md := f.buildMarkdown(response)

	if terminal {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if rendered, err := renderer.Render(md); err == nil {
				md = rendered
			}
		}
	}

	if _, err := io.WriteString(writer, md); err != nil {
		return domain.NewOutputError("failed to write markdown", err)
	}
	return nil
}

func (f *DuplicateOutputFormatter) buildMarkdown(response *domain.DuplicateResponse) string {
	report := response.Report

	var b strings.Builder
	b.WriteString("# Duplicate Code Report\n\n")

	if report.IsError() {
		fmt.Fprintf(&b, "**Scan failed:** %s\n", report.Error)
		return b.String()
	}

	fmt.Fprintf(&b, "- **Status:** %s\n", report.Status)
	fmt.Fprintf(&b, "- **Duplicate blocks:** %d\n", report.TotalDuplicates)
	if stats := response.Statistics; stats != nil {
		fmt.Fprintf(&b, "- **Files scanned:** %d\n", stats.FilesScanned)
	}
	b.WriteString("\n")

	if !report.HasIssues() {
		b.WriteString("No duplicate blocks found.\n")
		return b.String()
	}

	b.WriteString("| # | Count | Hash | Locations |\n")
	b.WriteString("|---|------:|------|-----------|\n")
	for i, group := range report.Duplicates {
		locs := make([]string, len(group.Locations))
		for j, loc := range group.Locations {
			locs[j] = "`" + loc + "`"
		}
		fmt.Fprintf(&b, "| %d | %d | `%s` | %s |\n",
			i+1, group.Count, f.utils.ShortHash(group.Hash), strings.Join(locs, "<br>"))
	}

	return b.String()
}

// splitLocation splits "<path>:<line>" at the last colon
func splitLocation(loc string) (string, string) {
	idx := strings.LastIndex(loc, ":")
	if idx < 0 {
		return loc, ""
	}
	return loc[:idx], loc[idx+1:]
}
