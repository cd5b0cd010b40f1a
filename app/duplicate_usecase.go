package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/dupscan/domain"
)

// reportTimestampLayout names timestamped report files
const reportTimestampLayout = "20060102_150405"

// DuplicateUseCase orchestrates duplicate detection operations
type DuplicateUseCase struct {
	service      domain.DuplicateService
	formatter    domain.DuplicateOutputFormatter
	configLoader domain.DuplicateConfigurationLoader
	output       domain.ReportWriter
	now          func() time.Time
}

// NewDuplicateUseCase creates a new duplicate use case with the given dependencies
func NewDuplicateUseCase(
	service domain.DuplicateService,
	formatter domain.DuplicateOutputFormatter,
	configLoader domain.DuplicateConfigurationLoader,
	output domain.ReportWriter,
) *DuplicateUseCase {
	return &DuplicateUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
		now:          time.Now,
	}
}

// Execute runs duplicate detection and writes the formatted report.
// The response is returned so callers can inspect the verdict.
func (uc *DuplicateUseCase) Execute(ctx context.Context, req domain.DuplicateRequest) (*domain.DuplicateResponse, error) {
	finalReq, err := uc.prepare(req)
	if err != nil {
		return nil, err
	}

	if finalReq.OutputWriter == nil && finalReq.OutputPath == "" {
		return nil, domain.NewInvalidInputError("output writer or output path is required", nil)
	}

	response, err := uc.service.Detect(ctx, finalReq)
	if err != nil {
		return nil, domain.NewAnalysisError("duplicate detection failed", err)
	}

	outputPath := uc.resolveOutputPath(finalReq)
	err = uc.output.Write(finalReq.OutputWriter, outputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.Write(response, finalReq.OutputFormat, w)
	})
	if err != nil {
		return response, err
	}

	return response, nil
}

// AnalyzeAndReturn runs duplicate detection without writing any output
func (uc *DuplicateUseCase) AnalyzeAndReturn(ctx context.Context, req domain.DuplicateRequest) (*domain.DuplicateResponse, error) {
	finalReq, err := uc.prepare(req)
	if err != nil {
		return nil, err
	}

	response, err := uc.service.Detect(ctx, finalReq)
	if err != nil {
		return nil, domain.NewAnalysisError("duplicate detection failed", err)
	}
	return response, nil
}

// prepare loads configuration, merges the request over it and validates the result
func (uc *DuplicateUseCase) prepare(req domain.DuplicateRequest) (*domain.DuplicateRequest, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, err
	}

	if finalReq.OutputFormat == "" {
		finalReq.OutputFormat = domain.OutputFormatText
	}
	if err := finalReq.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}
	return finalReq, nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *DuplicateUseCase) loadAndMergeConfig(req domain.DuplicateRequest) (*domain.DuplicateRequest, error) {
	if uc.configLoader == nil {
		return &req, nil
	}

	configReq, err := uc.configLoader.LoadConfig(req.ConfigPath, req.Path)
	if err != nil {
		return nil, err
	}

	return uc.configLoader.MergeConfig(configReq, &req), nil
}

// resolveOutputPath places non-text reports in the output directory when no
// explicit path or writer was given
func (uc *DuplicateUseCase) resolveOutputPath(req *domain.DuplicateRequest) string {
	if req.OutputPath != "" {
		return req.OutputPath
	}
	if req.OutputDirectory == "" || req.OutputFormat == domain.OutputFormatText {
		return ""
	}
	name := fmt.Sprintf("duplicates_%s.%s", uc.now().Format(reportTimestampLayout), req.OutputFormat.Extension())
	return filepath.Join(req.OutputDirectory, name)
}

// DuplicateUseCaseBuilder provides a builder pattern for creating DuplicateUseCase
type DuplicateUseCaseBuilder struct {
	service      domain.DuplicateService
	formatter    domain.DuplicateOutputFormatter
	configLoader domain.DuplicateConfigurationLoader
	output       domain.ReportWriter
	now          func() time.Time
}

// NewDuplicateUseCaseBuilder creates a new builder
func NewDuplicateUseCaseBuilder() *DuplicateUseCaseBuilder {
	return &DuplicateUseCaseBuilder{}
}

// WithService sets the duplicate service
func (b *DuplicateUseCaseBuilder) WithService(service domain.DuplicateService) *DuplicateUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *DuplicateUseCaseBuilder) WithFormatter(formatter domain.DuplicateOutputFormatter) *DuplicateUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *DuplicateUseCaseBuilder) WithConfigLoader(configLoader domain.DuplicateConfigurationLoader) *DuplicateUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *DuplicateUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *DuplicateUseCaseBuilder {
	b.output = output
	return b
}

// WithClock overrides the clock used for report file names
func (b *DuplicateUseCaseBuilder) WithClock(now func() time.Time) *DuplicateUseCaseBuilder {
	b.now = now
	return b
}

// Build creates the DuplicateUseCase with the configured dependencies
func (b *DuplicateUseCaseBuilder) Build() (*DuplicateUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("duplicate service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.output == nil {
		return nil, fmt.Errorf("report writer is required")
	}

	uc := NewDuplicateUseCase(b.service, b.formatter, b.configLoader, b.output)
	if b.now != nil {
		uc.now = b.now
	}
	return uc, nil
}
