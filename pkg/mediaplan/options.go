// Package mediaplan normalizes advertising media plan workbooks into a flat
// canonical record set.
package mediaplan

import (
	"go.uber.org/zap"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

// Options configures processing behavior.
type Options struct {
	// Format forces the file format. If empty, the format is detected from
	// the workbook file name.
	Format models.FileFormat
	// Concurrency is the number of sheets, and of workbooks in a batch,
	// processed in parallel. Values below 1 mean sequential processing.
	Concurrency int
	// Logger receives diagnostics. If nil, output is discarded.
	Logger *zap.Logger
	// ConfigError is a configuration load failure that processing proceeds
	// past on defaults. It is reported in every result.
	ConfigError error
}

// DefaultOptions returns default processing options.
func DefaultOptions() Options {
	return Options{
		Concurrency: 1,
	}
}

// concurrency returns the effective parallelism.
func (o Options) concurrency() int {
	if o.Concurrency < 1 {
		return 1
	}
	return o.Concurrency
}

// logger returns the configured logger or a no-op one.
func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
