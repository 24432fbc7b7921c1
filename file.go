package parquet

import (
	"io"
	"os"

	"github.com/arrowlake/parquet/format"
	"github.com/arrowlake/parquet/schema"
)

// FileHandle is the entry point of spec §6: open once against a file's
// footer metadata and a read-only byte mapping, then create any number of
// row readers over a projection of the schema. It owns nothing but the
// metadata and mapping; every Cursor it builds reads its own column chunk
// bytes lazily through CreateRowReader, not eagerly at Open.
type FileHandle struct {
	path     string
	mapping  io.ReaderAt
	metadata *format.FileMetaData
	root     *schema.Node
	executor *Executor
	config   *ReaderConfig
}

// Open implements spec §6's open(metadata, mapping, executor, decompressors):
// decompressors are resolved through the compress package's codec registry
// (populated by whichever codec sub-packages the caller has imported)
// rather than threaded through as an explicit argument. A nil executor gets
// one sized from config.WorkerPoolSize.
func Open(path string, mapping io.ReaderAt, metadata *format.FileMetaData, executor *Executor, options ...ReaderOption) (*FileHandle, error) {
	root, err := schema.Build(metadata.Schema)
	if err != nil {
		return nil, corruptf(path, "building schema: %w", err)
	}

	config := DefaultReaderConfig()
	config.Apply(options...)
	if executor == nil {
		executor = NewExecutor(config.WorkerPoolSize)
	}

	return &FileHandle{
		path:     path,
		mapping:  mapping,
		metadata: metadata,
		root:     root,
		executor: executor,
		config:   config,
	}, nil
}

// File pairs a FileHandle with the os.File backing its mapping, so callers
// that opened by path (rather than supplying their own io.ReaderAt) have
// something to Close.
type File struct {
	*FileHandle
	f *os.File
}

// OpenFile opens path, reads its footer, and returns a File ready to create
// row readers from, per SPEC_FULL.md's convenience entry point for tests and
// examples. Callers who already have an io.ReaderAt and a parsed
// *format.FileMetaData (e.g. because footer parsing ran elsewhere, or the
// bytes came from something other than a local file) should call Open
// directly instead.
func OpenFile(path string, options ...ReaderOption) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorf(Io, path, 0, "opening file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errorf(Io, path, 0, "stat: %w", err)
	}

	metadata, err := format.ReadFileMetaData(f, info.Size())
	if err != nil {
		f.Close()
		return nil, errorf(Io, path, 0, "reading footer: %w", err)
	}

	handle, err := Open(path, f, metadata, nil, options...)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{FileHandle: handle, f: f}, nil
}

// Close releases the underlying os.File.
func (f *File) Close() error { return f.f.Close() }

// Schema returns the file's schema tree root.
func (h *FileHandle) Schema() *schema.Node { return h.root }

// NumRows returns the file's total row count, as declared by the footer.
func (h *FileHandle) NumRows() int64 { return h.metadata.NumRows }

// NumRowGroups returns the number of row groups in the file.
func (h *FileHandle) NumRowGroups() int { return len(h.metadata.RowGroups) }

// isFlatSchema reports whether root describes a schema with no repeated or
// nested groups, the condition spec §4.6 uses to pick the flat Row Reader
// variant (one Assembly Buffer per column) over the nested one (a Record
// Assembler driven directly by the consumer).
func isFlatSchema(root *schema.Node) bool {
	for _, child := range root.Children {
		if !child.IsLeaf() || child.Repetition == schema.Repeated {
			return false
		}
	}
	return true
}

// CreateRowReader builds a row reader spanning every row group in file
// order, projected to the named leaf columns (by dotted path, e.g.
// "address.city"; an empty projection selects every leaf), per spec §6
// FileHandle::create_row_reader(projection?). It returns a *FlatRowReader
// when the file's whole schema has no repeated or nested groups, or a
// *NestedRowReader otherwise, per spec §4.6.
func (h *FileHandle) CreateRowReader(projection ...string) (interface{}, error) {
	leaves, err := h.projectedLeaves(projection)
	if err != nil {
		return nil, err
	}

	sources := make([]PageSource, len(leaves))
	for i, leaf := range leaves {
		source, err := h.openLeaf(leaf)
		if err != nil {
			return nil, err
		}
		sources[i] = source
	}

	if isFlatSchema(h.root) {
		buffers := make([]*AssemblyBuffer, len(leaves))
		for i, leaf := range leaves {
			buffers[i] = NewAssemblyBuffer(sources[i], h.config.BatchSize, leaf.Repetition == schema.Optional)
		}
		return NewFlatRowReader(buffers), nil
	}

	return NewNestedRowReader(sources, h.root, h.config.BatchSize), nil
}

// projectedLeaves resolves a dotted-path projection to schema leaves, in
// projection order; an empty projection returns every leaf in column-index
// order.
func (h *FileHandle) projectedLeaves(projection []string) ([]*schema.Node, error) {
	all := h.root.Leaves()
	if len(projection) == 0 {
		return all, nil
	}

	byPath := make(map[string]*schema.Node, len(all))
	for _, leaf := range all {
		byPath[leafPath(leaf)] = leaf
	}

	leaves := make([]*schema.Node, len(projection))
	for i, p := range projection {
		leaf, ok := byPath[p]
		if !ok {
			return nil, errorf(Schema, h.path, 0, "projected column %q not found in schema", p)
		}
		leaves[i] = leaf
	}
	return leaves, nil
}

// leafPath returns a leaf's dotted path from the schema root, e.g.
// "address.city".
func leafPath(leaf *schema.Node) string {
	var names []string
	for n := leaf; n != nil && n.Parent != nil; n = n.Parent {
		names = append([]string{n.Name}, names...)
	}
	path := ""
	for i, name := range names {
		if i > 0 {
			path += "."
		}
		path += name
	}
	return path
}

// openLeaf builds a Cursor per row group for leaf's column and chains them
// into a single PageSource spanning the whole file (spec §4.1/§4.3), reading
// each row group's column chunk bytes from the file's mapping on demand
// rather than up front.
func (h *FileHandle) openLeaf(leaf *schema.Node) (PageSource, error) {
	cursors := make([]PageSource, 0, len(h.metadata.RowGroups))

	for _, rg := range h.metadata.RowGroups {
		if leaf.ColumnIndex < 0 || leaf.ColumnIndex >= len(rg.Columns) {
			return nil, corruptf(h.path, "column index %d out of range for row group with %d columns", leaf.ColumnIndex, len(rg.Columns))
		}
		chunk := rg.Columns[leaf.ColumnIndex]
		meta := chunk.MetaData
		if meta == nil {
			return nil, corruptf(h.path, "column chunk %d is missing its metadata", leaf.ColumnIndex)
		}

		start := meta.DataPageOffset
		if meta.DictionaryPageOffset != nil {
			start = *meta.DictionaryPageOffset
		}

		buf := make([]byte, meta.TotalCompressedSize)
		if _, err := h.mapping.ReadAt(buf, start); err != nil {
			return nil, errorf(Io, h.path, start, "reading column chunk: %w", err)
		}

		pages, dict, err := ScanColumnChunk(h.path, buf, meta, leaf.TypeLength)
		if err != nil {
			return nil, err
		}

		cursors = append(cursors, NewCursor(h.path, pages, dict, leaf.MaxDefLevel, leaf.MaxRepLevel, h.executor, h.config.PrefetchDepthCap))
	}

	return ChainCursors(cursors...), nil
}
