package parquet

import (
	"io"
	"log"
)

const (
	DefaultBatchSize        = 1024
	DefaultPrefetchDepth    = startDepth
	DefaultPrefetchDepthCap = maxDepth
	DefaultWorkerPoolSize   = 4
)

// ReaderConfig carries the configuration options a reader applies when
// opening a file and pipelining its row-assembly, per spec §13. It follows
// the teacher's functional-options shape (FileConfig/ReaderConfig +
// ReaderOption) but with one combined config rather than the teacher's
// separate File/Reader/Writer/RowGroup configs, since writing is out of
// scope.
type ReaderConfig struct {
	// BatchSize is the target number of rows per Assembly Buffer batch
	// (spec §4.4).
	BatchSize int
	// PrefetchDepthCap is the Page Cursor's hard cap on prefetch depth
	// (spec §4.3); the start depth is not configurable, matching the
	// spec's fixed starting point of 4.
	PrefetchDepthCap int
	// WorkerPoolSize bounds the number of pages decoded concurrently
	// across all columns (spec §4.3/§5).
	WorkerPoolSize int
	// Logger is the logger for soft diagnostics. Defaults to a logger
	// writing to io.Discard, matching the teacher's near-silent library
	// code. No part of the reader writes to it: prefetch depth growth is
	// not logged, and the assembly producer does not recover panics.
	Logger *log.Logger
}

// DefaultReaderConfig returns a ReaderConfig initialized with this module's
// defaults.
func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		BatchSize:        DefaultBatchSize,
		PrefetchDepthCap: DefaultPrefetchDepthCap,
		WorkerPoolSize:   DefaultWorkerPoolSize,
		Logger:           log.New(io.Discard, "", 0),
	}
}

// ReaderOption configures a ReaderConfig. Functions returned by this
// package's option constructors implement it, mirroring the teacher's
// ReaderOption/ConfigureReader pattern.
type ReaderOption interface {
	ConfigureReader(*ReaderConfig)
}

// Apply applies options to c in order, later options overriding earlier
// ones.
func (c *ReaderConfig) Apply(options ...ReaderOption) {
	for _, opt := range options {
		opt.ConfigureReader(c)
	}
}

type readerOption func(*ReaderConfig)

func (opt readerOption) ConfigureReader(config *ReaderConfig) { opt(config) }

// BatchSize sets the target number of rows per Assembly Buffer batch.
func BatchSize(size int) ReaderOption {
	return readerOption(func(c *ReaderConfig) { c.BatchSize = size })
}

// PrefetchDepthCap sets the Page Cursor's hard prefetch depth cap.
func PrefetchDepthCap(depth int) ReaderOption {
	return readerOption(func(c *ReaderConfig) { c.PrefetchDepthCap = depth })
}

// WorkerPoolSize sets the number of pages decoded concurrently.
func WorkerPoolSize(size int) ReaderOption {
	return readerOption(func(c *ReaderConfig) { c.WorkerPoolSize = size })
}

// Logger sets the config's Logger to l instead of the default discard
// logger.
func Logger(l *log.Logger) ReaderOption {
	return readerOption(func(c *ReaderConfig) { c.Logger = l })
}

var _ ReaderOption = readerOption(nil)
