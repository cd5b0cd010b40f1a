package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/dupscan/domain"
)

// errorPattern maps message fragments to a category
type errorPattern struct {
	category domain.ErrorCategory
	patterns []string
}

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []errorPattern
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes:    initializeErrorCodes(),
		patterns: initializeErrorPatterns(),
	}
}

func initializeErrorCodes() map[string]domain.ErrorCategory {
	return map[string]domain.ErrorCategory{
		domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
		domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
		domain.ErrCodeReadError:         domain.ErrorCategoryInput,
		domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
		domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
		domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryOutput,
		domain.ErrCodeAnalysisError:     domain.ErrorCategoryProcessing,
	}
}

// initializeErrorPatterns lists fallback patterns in match order
func initializeErrorPatterns() []errorPattern {
	return []errorPattern{
		{
			category: domain.ErrorCategoryTimeout,
			patterns: []string{"timeout", "timed out", "deadline", "context canceled", "cancelled"},
		},
		{
			category: domain.ErrorCategoryConfig,
			patterns: []string{"config", "toml", "yaml", "invalid settings"},
		},
		{
			category: domain.ErrorCategoryInput,
			patterns: []string{"invalid input", "directory", "file not found", "no such file", "cannot access", "permission denied"},
		},
		{
			category: domain.ErrorCategoryOutput,
			patterns: []string{"write", "output", "format", "cannot create"},
		},
		{
			category: domain.ErrorCategoryProcessing,
			patterns: []string{"scan", "analysis", "process", "hash"},
		},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := domain.ErrorCategoryUnknown
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		category = domain.ErrorCategoryTimeout
	default:
		if c, ok := ec.codes[domain.ErrorCode(err)]; ok {
			category = c
		} else {
			category = ec.categorizeByMessage(strings.ToLower(err.Error()))
		}
	}

	message := err.Error()
	if category != domain.ErrorCategoryUnknown {
		message = ec.getCategoryMessage(category)
	}

	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categorizeByMessage(msg string) domain.ErrorCategory {
	for _, p := range ec.patterns {
		if containsAnyPattern(msg, p.patterns) {
			return p.category
		}
	}
	return domain.ErrorCategoryUnknown
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the target directory exists and contains Python files",
			"Try: dupscan scan . --verbose to see skipped files",
			"Ensure you have read permissions for the target files",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: dupscan init to generate a valid config file",
			"Check for syntax errors in .dupscan.toml or pyproject.toml",
		},
		domain.ErrorCategoryTimeout: {
			"Scan a smaller directory or raise --file-timeout",
			"Check for slow or unreachable network mounts",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions and output format validity",
			"Ensure the output directory exists and is writable",
		},
		domain.ErrorCategoryProcessing: {
			"Run with --verbose for per-file details",
			"Try lowering --workers to isolate the failing file",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read the scan target",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Scan timed out or was cancelled",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while scanning for duplicates",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
