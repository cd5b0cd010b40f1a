package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ludo-technologies/dupscan/domain"
	"github.com/ludo-technologies/dupscan/internal/analyzer"
)

// DuplicateServiceImpl implements the domain.DuplicateService interface
type DuplicateServiceImpl struct {
	fileReader  domain.FileReader
	newExecutor func() domain.ParallelExecutor
	progress    domain.ProgressManager
	logger      *log.Logger
}

// fileResult pairs a file outcome with the windows it produced
type fileResult struct {
	outcome domain.FileOutcome
	windows []analyzer.Window
}

// NewDuplicateService creates a duplicate service with the default file
// reader and executor. progress and logger may be nil.
func NewDuplicateService(progress domain.ProgressManager, logger *log.Logger) *DuplicateServiceImpl {
	return NewDuplicateServiceWithReader(NewFileReader(), progress, logger)
}

// NewDuplicateServiceWithReader creates a duplicate service reading files through fileReader
func NewDuplicateServiceWithReader(fileReader domain.FileReader, progress domain.ProgressManager, logger *log.Logger) *DuplicateServiceImpl {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &DuplicateServiceImpl{
		fileReader:  fileReader,
		newExecutor: NewParallelExecutor,
		progress:    progress,
		logger:      logger,
	}
}

// Detect scans req.Path for duplicated blocks.
//
// Problems with the scan root and cancellation produce an error report, not
// an error; only an invalid request returns an error.
func (s *DuplicateServiceImpl) Detect(ctx context.Context, req *domain.DuplicateRequest) (*domain.DuplicateResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("duplicate request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid duplicate request: %w", err)
	}

	startTime := time.Now()
	stats := domain.NewScanStatistics(uuid.NewString())
	response := &domain.DuplicateResponse{
		Statistics: stats,
		Request:    req,
	}
	defer func() {
		response.Duration = time.Since(startTime).Milliseconds()
	}()

	s.logger.Printf("[%s] scanning %s for *%s files", stats.RunID, req.Path, req.Extension)

	report, err := s.scan(ctx, req, stats)
	if err != nil {
		s.logger.Printf("[%s] scan failed: %v", stats.RunID, err)
		response.Report = domain.NewErrorReport(errorMessage(err))
		return response, nil
	}

	s.logger.Printf("[%s] %d files scanned, %d skipped, %d windows, %d duplicate groups",
		stats.RunID, stats.FilesScanned, stats.FilesSkipped, stats.WindowsHashed, stats.DuplicateGroups)

	response.Report = report
	return response, nil
}

func (s *DuplicateServiceImpl) scan(ctx context.Context, req *domain.DuplicateRequest, stats *domain.ScanStatistics) (*domain.DuplicateReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	if err := s.fileReader.ValidateRoot(req.Path); err != nil {
		return nil, err
	}

	collection, err := s.fileReader.CollectSourceFiles(req.Path, req.Extension, req.ExcludePatterns, req.MaxFiles)
	if err != nil {
		return nil, err
	}

	stats.FilesDiscovered = len(collection.Files)
	stats.Truncated = collection.Truncated
	if collection.Truncated {
		s.logger.Printf("[%s] file cap reached, only the first %d files are scanned", stats.RunID, req.MaxFiles)
	}

	results, err := s.processFiles(ctx, collection.Files, req)
	if err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	detector := analyzer.NewDuplicateDetector(detectorConfig(req))

	// Merge in discovery order so occurrence order does not depend on scheduling
	for _, res := range results {
		if res.outcome.Skipped() {
			stats.RecordSkip(res.outcome.Skip)
			if res.outcome.Err != nil {
				s.logger.Printf("[%s] skipped %s (%s): %v", stats.RunID, res.outcome.File.RelPath, res.outcome.Skip, res.outcome.Err)
			} else {
				s.logger.Printf("[%s] skipped %s (%s)", stats.RunID, res.outcome.File.RelPath, res.outcome.Skip)
			}
			continue
		}
		stats.FilesScanned++
		stats.LinesNormalized += res.outcome.Lines
		detector.AddWindows(res.windows)
	}

	summary := detector.Summarize()
	stats.WindowsHashed = detector.WindowCount()
	stats.UniqueHashes = detector.FingerprintCount()
	stats.DuplicateGroups = summary.TotalGroups

	return domain.NewDuplicateReport(summary.TotalGroups, convertGroupsToDomain(summary.Groups)), nil
}

// processFiles reads and windows every file on the parallel executor. Each
// task owns one result slot.
func (s *DuplicateServiceImpl) processFiles(ctx context.Context, files []domain.SourceFile, req *domain.DuplicateRequest) ([]fileResult, error) {
	results := make([]fileResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	var limiter *rate.Limiter
	if req.ReadRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(req.ReadRate), 1)
	}

	if s.progress != nil {
		s.progress.Initialize(len(files))
		s.progress.Start()
	}

	var processed int64
	tasks := make([]domain.ExecutableTask, len(files))
	for i, file := range files {
		tasks[i] = NewSimpleTask(file.RelPath, true, func(ctx context.Context) (interface{}, error) {
			res, err := s.processFile(ctx, file, req, limiter)
			if err != nil {
				return nil, err
			}
			results[i] = res

			done := atomic.AddInt64(&processed, 1)
			if s.progress != nil {
				s.progress.Update(int(done), len(files))
			}
			return nil, nil
		})
	}

	executor := s.newExecutor()
	executor.SetMaxConcurrency(req.MaxWorkers)
	executor.SetTimeout(0)

	err := executor.Execute(ctx, tasks)
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// processFile produces the outcome of one file. It only returns an error
// when ctx is done; every per-file failure is a skip.
func (s *DuplicateServiceImpl) processFile(ctx context.Context, file domain.SourceFile, req *domain.DuplicateRequest, limiter *rate.Limiter) (fileResult, error) {
	res := fileResult{outcome: domain.FileOutcome{File: file}}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return res, err
		}
	}

	content, err := s.fileReader.ReadFileWithTimeout(ctx, file.Path, req.FileTimeout)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		res.outcome.Err = err
		if errors.Is(err, ErrReadTimeout) {
			res.outcome.Skip = domain.SkipReasonTimeout
		} else {
			res.outcome.Skip = domain.SkipReasonReadError
		}
		return res, nil
	}

	if !utf8.Valid(content) {
		res.outcome.Skip = domain.SkipReasonInvalidEncoding
		return res, nil
	}

	lines := analyzer.NormalizeSource(string(content), req.CommentMarker)
	res.outcome.Lines = len(lines)
	res.windows = analyzer.BuildWindows(file.RelPath, lines, req.WindowSize)
	if len(res.windows) == 0 {
		res.outcome.Skip = domain.SkipReasonTooFewLines
	}
	return res, nil
}

func detectorConfig(req *domain.DuplicateRequest) *analyzer.DuplicateDetectorConfig {
	return &analyzer.DuplicateDetectorConfig{
		WindowSize:           req.WindowSize,
		CommentMarker:        req.CommentMarker,
		MaxGroups:            req.MaxGroups,
		MaxFilesPerGroup:     req.MaxFilesPerGroup,
		MaxLocationsPerGroup: req.MaxLocationsPerGroup,
	}
}

func convertGroupsToDomain(groups []analyzer.GroupSummary) []domain.DuplicateGroup {
	result := make([]domain.DuplicateGroup, 0, len(groups))
	for _, g := range groups {
		result = append(result, domain.DuplicateGroup{
			Hash:      g.Fingerprint,
			Count:     g.Count,
			Files:     g.Files,
			Locations: g.Locations,
		})
	}
	return result
}

// errorMessage returns the human-readable part of a domain error
func errorMessage(err error) string {
	var de domain.DomainError
	if errors.As(err, &de) {
		if de.Cause != nil && de.Code == domain.ErrCodeReadError {
			return fmt.Sprintf("%s: %v", de.Message, de.Cause)
		}
		return de.Message
	}
	return err.Error()
}
