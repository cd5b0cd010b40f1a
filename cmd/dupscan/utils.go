package main

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/dupscan/app"
	"github.com/ludo-technologies/dupscan/domain"
	"github.com/ludo-technologies/dupscan/internal/constants"
	"github.com/ludo-technologies/dupscan/service"
)

// detectionFlags holds the flags shared by scan and check
type detectionFlags struct {
	configFile string

	windowSize           int
	maxFiles             int
	maxGroups            int
	maxFilesPerGroup     int
	maxLocationsPerGroup int
	extension            string
	commentMarker        string
	exclude              []string

	workers     int
	fileTimeout time.Duration
	readRate    float64

	stats bool
}

// register adds the shared flags to fs
func (f *detectionFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configFile, "config", "c", "", "Configuration file path (.toml, .yaml or .json)")

	fs.IntVar(&f.windowSize, service.FlagWindowSize, constants.DefaultWindowSize, "Normalized lines per fingerprinted block")
	fs.IntVar(&f.maxFiles, service.FlagMaxFiles, constants.DefaultMaxFiles, "Maximum number of files to scan")
	fs.IntVar(&f.maxGroups, service.FlagMaxGroups, constants.DefaultMaxGroups, "Maximum number of duplicate blocks to report")
	fs.IntVar(&f.maxFilesPerGroup, service.FlagMaxFilesPerGroup, constants.DefaultMaxFilesPerGroup, "Maximum files listed per duplicate block")
	fs.IntVar(&f.maxLocationsPerGroup, service.FlagMaxLocationsPerGroup, constants.DefaultMaxLocationsPerGroup, "Maximum locations listed per duplicate block")
	fs.StringVar(&f.extension, service.FlagExtension, constants.DefaultSourceExtension, "File name suffix of scanned files")
	fs.StringVar(&f.commentMarker, service.FlagCommentMarker, constants.DefaultCommentMarker, "Prefix of comment lines ignored during matching")
	fs.StringSliceVar(&f.exclude, service.FlagExclude, nil, "Glob patterns of paths to skip (e.g. 'venv/**')")

	fs.IntVar(&f.workers, service.FlagWorkers, 0, "Concurrent file reads (0 = number of CPUs)")
	fs.DurationVar(&f.fileTimeout, service.FlagFileTimeout, 0, "Per-file read timeout (0 = none)")
	fs.Float64Var(&f.readRate, service.FlagReadRate, 0, "Maximum files read per second (0 = unlimited)")

	fs.BoolVar(&f.stats, "stats", false, "Print scan statistics to stderr")
}

// request builds the CLI side of a duplicate request
func (f *detectionFlags) request(path string) *domain.DuplicateRequest {
	return &domain.DuplicateRequest{
		Path:                 path,
		Extension:            f.extension,
		ExcludePatterns:      f.exclude,
		WindowSize:           f.windowSize,
		CommentMarker:        f.commentMarker,
		MaxFiles:             f.maxFiles,
		MaxGroups:            f.maxGroups,
		MaxFilesPerGroup:     f.maxFilesPerGroup,
		MaxLocationsPerGroup: f.maxLocationsPerGroup,
		MaxWorkers:           f.workers,
		FileTimeout:          f.fileTimeout,
		ReadRate:             f.readRate,
		ShowStatistics:       f.stats,
		ConfigPath:           f.configFile,
	}
}

// buildUseCase wires the duplicate use case for cmd
func buildUseCase(cmd *cobra.Command) (*app.DuplicateUseCase, error) {
	progress := service.NewProgressManagerWithWriter(cmd.ErrOrStderr())
	svc := service.NewDuplicateService(progress, newLogger(cmd))

	return app.NewDuplicateUseCaseBuilder().
		WithService(svc).
		WithFormatter(service.NewDuplicateOutputFormatter()).
		WithConfigLoader(service.NewDuplicateConfigurationLoaderWithFlags(GetExplicitFlags(cmd))).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// newLogger returns a stderr logger when --verbose is set, nil otherwise
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil || !verbose {
		return nil
	}
	return log.New(cmd.ErrOrStderr(), "dupscan: ", log.LstdFlags)
}

// getTargetPathFromArgs extracts the first argument as target path, defaulting to "."
func getTargetPathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// printStatistics writes a one-line scan summary plus skip reasons
func printStatistics(w io.Writer, stats *domain.ScanStatistics) {
	if stats == nil {
		return
	}

	fmt.Fprintf(w, "Run %s: %d files discovered, %d scanned, %d skipped, %d windows, %d unique hashes\n",
		stats.RunID, stats.FilesDiscovered, stats.FilesScanned, stats.FilesSkipped,
		stats.WindowsHashed, stats.UniqueHashes)
	if stats.Truncated {
		fmt.Fprintf(w, "File cap reached; remaining files were not scanned\n")
	}

	if len(stats.SkipReasons) == 0 {
		return
	}
	reasons := make([]string, 0, len(stats.SkipReasons))
	for reason, count := range stats.SkipReasons {
		reasons = append(reasons, fmt.Sprintf("%s=%d", reason, count))
	}
	sort.Strings(reasons)
	fmt.Fprintf(w, "Skipped: %s\n", strings.Join(reasons, ", "))
}

// printError writes err with its category and recovery hints
func printError(w io.Writer, err error) {
	if err == nil {
		return
	}
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	fmt.Fprintf(w, "Error: %v\n", err)
	if categorized.Category == domain.ErrorCategoryUnknown {
		return
	}
	fmt.Fprintf(w, "%s (%s)\n", categorized.Message, categorized.Category)
	for _, suggestion := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  - %s\n", suggestion)
	}
}
