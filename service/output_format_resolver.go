package service

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/dupscan/domain"
)

// OutputFormatResolver resolves output format and file extension from flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format and extension.
// At most one of json/yaml/csv/markdown may be true; if none are true, defaults to text.
func (r *OutputFormatResolver) Determine(json, yaml, csv, markdown bool) (domain.OutputFormat, string, error) {
	var selected []domain.OutputFormat
	if json {
		selected = append(selected, domain.OutputFormatJSON)
	}
	if yaml {
		selected = append(selected, domain.OutputFormatYAML)
	}
	if csv {
		selected = append(selected, domain.OutputFormatCSV)
	}
	if markdown {
		selected = append(selected, domain.OutputFormatMarkdown)
	}

	switch len(selected) {
	case 0:
		return domain.OutputFormatText, "", nil
	case 1:
		return selected[0], selected[0].Extension(), nil
	default:
		return "", "", fmt.Errorf("only one output format flag can be specified")
	}
}

// Parse resolves a format name such as "json" or "md"
func (r *OutputFormatResolver) Parse(name string) (domain.OutputFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "":
		return domain.OutputFormatText, nil
	case "md":
		return domain.OutputFormatMarkdown, nil
	case "yml":
		return domain.OutputFormatYAML, nil
	}
	format := domain.OutputFormat(normalized)
	if !format.IsValid() {
		return "", domain.NewUnsupportedFormatError(name)
	}
	return format, nil
}
