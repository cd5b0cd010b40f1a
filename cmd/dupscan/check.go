package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Exit codes of the check command
const (
	exitCodeClean         = 0
	exitCodeIssues        = 1
	exitCodeAnalysisError = 2
)

// exitError carries a process exit code through cobra
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// CheckCommand represents the CI gate command
type CheckCommand struct {
	detectionFlags

	maxDuplicates int
	quiet         bool
}

// NewCheckCommand creates a new check command
func NewCheckCommand() *CheckCommand {
	return &CheckCommand{}
}

// CreateCobraCommand creates the cobra command for the duplicate gate
func (c *CheckCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Fail when duplicated code exceeds a threshold",
		Long: `Check a directory tree for duplicated code, for use in CI pipelines.

Exit codes:
  0: duplicate blocks at or below --max-duplicates
  1: more duplicate blocks than --max-duplicates
  2: scan failed (missing directory, bad configuration, ...)

Examples:
  # Fail on any duplicated block
  dupscan check .

  # Tolerate up to five duplicated blocks
  dupscan check --max-duplicates 5 src/`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runCheck,
	}

	c.register(cmd.Flags())
	cmd.Flags().IntVar(&c.maxDuplicates, "max-duplicates", 0, "Maximum allowed duplicate blocks")
	cmd.Flags().BoolVarP(&c.quiet, "quiet", "q", false, "Suppress output unless the check fails")

	return cmd
}

// runCheck executes the gate and maps the verdict to an exit code
func (c *CheckCommand) runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if c.maxDuplicates < 0 {
		return &exitError{code: exitCodeAnalysisError, err: fmt.Errorf("--max-duplicates must be >= 0")}
	}

	useCase, err := buildUseCase(cmd)
	if err != nil {
		return &exitError{code: exitCodeAnalysisError, err: err}
	}

	path := getTargetPathFromArgs(args)
	response, err := useCase.AnalyzeAndReturn(cmd.Context(), *c.request(path))
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", red("✗ Duplicate check failed:"), err)
		return &exitError{code: exitCodeAnalysisError}
	}

	if c.stats {
		printStatistics(out, response.Statistics)
	}

	report := response.Report
	if report.IsError() {
		fmt.Fprintf(out, "%s %s\n", red("✗ Duplicate check failed:"), report.Error)
		return &exitError{code: exitCodeAnalysisError}
	}

	if report.TotalDuplicates > c.maxDuplicates {
		for i, group := range report.Duplicates {
			fmt.Fprintf(out, "%s %s\n", yellow(fmt.Sprintf("%d. %dx", i+1, group.Count)), strings.Join(group.Locations, ", "))
		}
		fmt.Fprintf(out, "%s\n", red(fmt.Sprintf("✗ Found %d duplicate block(s) (limit %d)", report.TotalDuplicates, c.maxDuplicates)))
		return &exitError{code: exitCodeIssues}
	}

	if !c.quiet {
		fmt.Fprintf(out, "%s\n", green(fmt.Sprintf("✓ Duplicate check passed (%d duplicate block(s), limit %d)", report.TotalDuplicates, c.maxDuplicates)))
	}
	return nil
}

// NewCheckCmd creates and returns the check cobra command
func NewCheckCmd() *cobra.Command {
	return NewCheckCommand().CreateCobraCommand()
}

// exitCode maps a command error to the process exit code
func exitCode(err error) int {
	if err == nil {
		return exitCodeClean
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return exitCodeAnalysisError
}
