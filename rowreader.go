package parquet

import (
	"github.com/arrowlake/parquet/record"
	"github.com/arrowlake/parquet/schema"
)

// FlatRowReader is the Row Reader variant selected at open time for a
// schema with no repeated or nested groups (spec §4.6). Each projected
// column is driven by its own AssemblyBuffer; HasNext/Next pull one row's
// worth of values across every column's current batch, requesting a fresh
// batch from a column's buffer only once its current one is exhausted.
type FlatRowReader struct {
	columns []*columnCursor
	row     []Value
	err     error
}

type columnCursor struct {
	buf    *AssemblyBuffer
	batch  *Batch
	offset int
}

// NewFlatRowReader builds a FlatRowReader over one AssemblyBuffer per
// projected leaf, in projection order.
func NewFlatRowReader(buffers []*AssemblyBuffer) *FlatRowReader {
	columns := make([]*columnCursor, len(buffers))
	for i, buf := range buffers {
		columns[i] = &columnCursor{buf: buf}
	}
	return &FlatRowReader{columns: columns, row: make([]Value, len(buffers))}
}

// HasNext lazily loads each column's next batch if its current one is
// exhausted, and reports whether a full row is available. It is safe to
// call repeatedly before Next.
func (r *FlatRowReader) HasNext() bool {
	if r.err != nil {
		return false
	}
	for _, cc := range r.columns {
		if cc.batch != nil && cc.offset < len(cc.batch.Values) {
			continue
		}
		batch, err := cc.buf.AwaitNextBatch()
		if err != nil {
			r.err = err
			return false
		}
		if batch == nil {
			return false
		}
		cc.batch = batch
		cc.offset = 0
	}
	return true
}

// Next returns the current row's values, one per projected column in
// projection order, and advances past it. Call HasNext first to confirm a
// row is available.
func (r *FlatRowReader) Next() ([]Value, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i, cc := range r.columns {
		r.row[i] = cc.batch.Values[cc.offset]
		cc.offset++
	}
	return r.row, nil
}

// Err returns the error, if any, that ended iteration early.
func (r *FlatRowReader) Err() error { return r.err }

// NestedRowReader is the Row Reader variant selected when the schema has
// repeated or nested groups. No per-column Assembly Buffer runs here; the
// Record Assembler runs on the consumer thread itself (spec §5 "none in
// nested mode").
type NestedRowReader struct {
	cursors   []PageSource
	assembler *record.Assembler
	batchSize int
	batch     []*record.Value
	offset    int
	// pending holds, per leaf column, the tail end of the previous pull
	// that didn't belong to a record complete enough to hand the
	// assembler: either the batch's last (possibly still-open) record, or
	// the extra whole records a column's page boundary happened to include
	// past where its slower siblings stopped. It is prepended the next
	// time that column is pulled.
	pending   [][]Value
	exhausted []bool
	err       error
}

// NewNestedRowReader builds a NestedRowReader over one PageSource per
// projected leaf (in root.Leaves() order) and an Assembler for root.
func NewNestedRowReader(cursors []PageSource, root *schema.Node, batchSize int) *NestedRowReader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &NestedRowReader{
		cursors:   cursors,
		assembler: record.NewAssembler(root),
		batchSize: batchSize,
		pending:   make([][]Value, len(cursors)),
		exhausted: make([]bool, len(cursors)),
	}
}

// HasNext loads and assembles the next batch of records if the current one
// is exhausted, and reports whether a record is available.
//
// Each leaf column is pulled independently and has its own page boundaries,
// so a straight concatenation of "whole pages until batchSize rows" would
// leave different columns holding a different number of complete records
// (spec §4.5's "every column must agree on record count" would then reject
// the batch on a perfectly valid file). Every pull is therefore trimmed to
// the number of records every column can account for in full, and whatever
// is left over is carried into the next call via r.pending - this is also
// what keeps a record from splitting across two assembled batches.
func (r *NestedRowReader) HasNext() bool {
	if r.err != nil {
		return false
	}
	if r.batch != nil && r.offset < len(r.batch) {
		return true
	}

	target := r.batchSize
	for {
		columns := make([][]Value, len(r.cursors))
		any := false
		for i, cur := range r.cursors {
			values, err := pullRows(cur, r.pending[i], target, &r.exhausted[i])
			if err != nil {
				r.err = err
				return false
			}
			columns[i] = values
			if len(values) > 0 {
				any = true
			}
		}
		if !any {
			return false
		}

		trimmed, pending, minRows := trimToRecordBoundary(columns, r.exhausted)
		r.pending = pending

		allExhausted := true
		for _, done := range r.exhausted {
			if !done {
				allExhausted = false
				break
			}
		}
		if minRows == 0 && !allExhausted {
			// No column has even one record it can vouch for as complete
			// yet (e.g. a single record's repeated values span more pages
			// than one batch's worth) - pull more before assembling.
			target += r.batchSize
			continue
		}

		records, err := r.assembler.AssembleBatch(trimmed)
		if err != nil {
			r.err = corruptf("", "assembling records: %w", err)
			return false
		}
		if len(records) == 0 {
			return false
		}
		r.batch = records
		r.offset = 0
		return true
	}
}

// Next returns the current assembled record and advances past it. Call
// HasNext first to confirm a record is available.
func (r *NestedRowReader) Next() (*record.Value, error) {
	if r.err != nil {
		return nil, r.err
	}
	rec := r.batch[r.offset]
	r.offset++
	return rec, nil
}

// Err returns the error, if any, that ended iteration early.
func (r *NestedRowReader) Err() error { return r.err }

// pullRows returns pending plus whatever cur.NextPage yields until at least
// targetRows records (marked by repetition level 0) have been collected
// across the two, or the cursor is exhausted. *exhausted latches true the
// first time NextPage reports EOF, after which pullRows stops calling it
// and simply hands pending back unchanged.
func pullRows(cur PageSource, pending []Value, targetRows int, exhausted *bool) ([]Value, error) {
	values := pending
	if *exhausted {
		return values, nil
	}
	rows := countRows(values)
	for rows < targetRows {
		page, err := cur.NextPage()
		if err != nil {
			return nil, err
		}
		if page == nil {
			*exhausted = true
			break
		}
		values = append(values, page.Values...)
		for _, v := range page.Values {
			if v.RepetitionLevel() == 0 {
				rows++
			}
		}
	}
	return values, nil
}

// countRows reports how many records (repetition level 0 markers) values
// contains.
func countRows(values []Value) int {
	n := 0
	for _, v := range values {
		if v.RepetitionLevel() == 0 {
			n++
		}
	}
	return n
}

// trimToRecordBoundary cuts every column down to the number of records it
// can guarantee are complete, and returns the cut point's leftover as the
// next call's pending prefix for that column.
//
// A record is guaranteed complete once a later value starts the next one
// (repetition level 0) - Dremel striping never revisits a closed record -
// or the column's source is exhausted, in which case nothing more can ever
// arrive to extend its last record either. Columns disagree on how many
// complete records they hold because each has its own independent page
// layout; the minimum across columns is what every leaf can supply, so
// that is what gets handed to the assembler.
func trimToRecordBoundary(columns [][]Value, exhausted []bool) (trimmed, pending [][]Value, minRows int) {
	minRows = -1
	for i, col := range columns {
		n := countRows(col)
		if !exhausted[i] && n > 0 {
			n-- // the last record in col might still continue on an unpulled page
		}
		if minRows < 0 || n < minRows {
			minRows = n
		}
	}
	if minRows < 0 {
		minRows = 0
	}

	trimmed = make([][]Value, len(columns))
	pending = make([][]Value, len(columns))
	for i, col := range columns {
		cut := len(col)
		seen := 0
		for j, v := range col {
			if v.RepetitionLevel() == 0 {
				seen++
				if seen == minRows+1 {
					cut = j
					break
				}
			}
		}
		trimmed[i] = col[:cut]
		if cut < len(col) {
			leftover := make([]Value, len(col)-cut)
			copy(leftover, col[cut:])
			pending[i] = leftover
		}
	}
	return trimmed, pending, minRows
}
