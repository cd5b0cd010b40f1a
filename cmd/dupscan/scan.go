package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dupscan/service"
)

// ScanCommand represents the scan command
type ScanCommand struct {
	detectionFlags

	// Output format flags
	json     bool
	yaml     bool
	csv      bool
	markdown bool

	outputPath string
	outputDir  string
}

// NewScanCommand creates a new scan command
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// CreateCobraCommand creates the cobra command for duplicate scanning
func (c *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Report duplicated code blocks",
		Long: `Scan a directory tree for duplicated blocks of Python code.

Lines are compared after trimming whitespace; blank lines and comment lines
are ignored. Blocks seen in two or more places are reported with their
locations, most frequent first.

Settings are read from .dupscan.toml or the [tool.dupscan] table of
pyproject.toml, found by walking up from the scanned path. Flags override
the configuration only when given explicitly.

Examples:
  # Scan the current directory
  dupscan scan

  # Scan src/ and emit the JSON report
  dupscan scan --json src/

  # Ignore virtualenvs and migrations
  dupscan scan --exclude 'venv/**' --exclude '**/migrations/**' .

  # Write a markdown report to a file
  dupscan scan --markdown -o duplicates.md .`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runScan,
	}

	c.register(cmd.Flags())

	cmd.Flags().BoolVar(&c.json, service.FlagJSON, false, "Output JSON")
	cmd.Flags().BoolVar(&c.yaml, service.FlagYAML, false, "Output YAML")
	cmd.Flags().BoolVar(&c.csv, service.FlagCSV, false, "Output CSV")
	cmd.Flags().BoolVar(&c.markdown, service.FlagMarkdown, false, "Output Markdown")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Write the report to this file")
	cmd.Flags().StringVar(&c.outputDir, service.FlagOutputDir, "", "Directory for timestamped report files")

	return cmd
}

// runScan executes the scan
func (c *ScanCommand) runScan(cmd *cobra.Command, args []string) error {
	format, _, err := service.NewOutputFormatResolver().Determine(c.json, c.yaml, c.csv, c.markdown)
	if err != nil {
		return err
	}

	useCase, err := buildUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize scan: %w", err)
	}

	req := c.request(getTargetPathFromArgs(args))
	req.OutputFormat = format
	req.OutputWriter = cmd.OutOrStdout()
	req.OutputPath = c.outputPath
	req.OutputDirectory = c.outputDir

	response, err := useCase.Execute(cmd.Context(), *req)
	if err != nil {
		return err
	}

	if c.stats {
		printStatistics(cmd.ErrOrStderr(), response.Statistics)
	}
	return nil
}

// NewScanCmd creates and returns the scan cobra command
func NewScanCmd() *cobra.Command {
	return NewScanCommand().CreateCobraCommand()
}
