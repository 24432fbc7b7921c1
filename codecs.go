package parquet

// Importing these sub-packages for their init-time compress.Register calls
// is what makes every standard parquet compression codec available without
// a caller having to wire each one up itself, mirroring the teacher's
// compress.go which pulls in the same set for its fixed codec table.
import (
	_ "github.com/arrowlake/parquet/compress/brotli"
	_ "github.com/arrowlake/parquet/compress/gzip"
	_ "github.com/arrowlake/parquet/compress/lz4"
	_ "github.com/arrowlake/parquet/compress/snappy"
	_ "github.com/arrowlake/parquet/compress/uncompressed"
	_ "github.com/arrowlake/parquet/compress/zstd"
)
