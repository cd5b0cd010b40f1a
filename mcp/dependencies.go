package mcp

import (
	"log"

	"github.com/ludo-technologies/dupscan/app"
	"github.com/ludo-technologies/dupscan/domain"
	"github.com/ludo-technologies/dupscan/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	configPath string
	logger     *log.Logger
}

// NewDependencies constructs the dependency set. An empty configPath makes
// every call discover configuration from the scanned path.
func NewDependencies(configPath string, logger *log.Logger) *Dependencies {
	return &Dependencies{
		fileReader: service.NewFileReader(),
		configPath: configPath,
		logger:     logger,
	}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BuildDuplicateUseCase assembles a fresh DuplicateUseCase.
func (d *Dependencies) BuildDuplicateUseCase() (*app.DuplicateUseCase, error) {
	svc := service.NewDuplicateServiceWithReader(d.fileReader, nil, d.logger)

	return app.NewDuplicateUseCaseBuilder().
		WithService(svc).
		WithFormatter(service.NewDuplicateOutputFormatter()).
		WithConfigLoader(service.NewDuplicateConfigurationLoader()).
		WithOutputWriter(service.NewFileOutputWriter(nil)).
		Build()
}
