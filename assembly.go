package parquet

// Batch is one flat column's ready-to-read slab of decoded values, sized in
// whole rows, per spec §4.4. Nulls is nil for required columns; for
// optional columns it parallels Values one-for-one.
type Batch struct {
	Values []Value
	Nulls  []bool
}

const (
	readyQueueCapacity = 2
	arrayPoolCapacity  = 3
)

type batchResult struct {
	batch *Batch
	err   error
}

// AssemblyBuffer pipelines one flat column's Cursor with its consumer: a
// single producer goroutine decodes pages and fills batches, a single
// consumer drains them via AwaitNextBatch, per spec §4.4. It exists only
// for flat (non-repeated, non-nested) columns; nested columns run the
// Record Assembler on the consumer thread instead (spec §4.5/§5).
type AssemblyBuffer struct {
	optional bool

	ready    chan batchResult
	pool     chan []Value
	previous *Batch
}

// NewAssemblyBuffer starts the producer goroutine immediately. batchCapacity
// is the target number of rows per published batch; optional marks whether
// the column can be null, which decides whether Nulls is populated.
func NewAssemblyBuffer(cursor PageSource, batchCapacity int, optional bool) *AssemblyBuffer {
	if batchCapacity <= 0 {
		batchCapacity = 1
	}
	b := &AssemblyBuffer{
		optional: optional,
		ready:    make(chan batchResult, readyQueueCapacity),
		pool:     make(chan []Value, arrayPoolCapacity),
	}
	for i := 0; i < arrayPoolCapacity; i++ {
		b.pool <- make([]Value, 0, batchCapacity)
	}
	go b.run(cursor, batchCapacity)
	return b
}

func (b *AssemblyBuffer) run(cursor PageSource, batchCapacity int) {
	defer close(b.ready)

	current := &Batch{Values: <-b.pool}
	rows := 0

	publish := func() {
		b.ready <- batchResult{batch: current}
		current = &Batch{Values: <-b.pool}
		rows = 0
	}

	for {
		page, err := cursor.NextPage()
		if err != nil {
			b.ready <- batchResult{err: err}
			return
		}
		if page == nil {
			break
		}

		current.Values = append(current.Values, page.Values...)
		if b.optional {
			for _, v := range page.Values {
				current.Nulls = append(current.Nulls, v.IsNull())
			}
		}
		rows += len(page.Values)

		for rows >= batchCapacity {
			publish()
		}
	}

	if len(current.Values) > 0 {
		b.ready <- batchResult{batch: current}
	}
}

// AwaitNextBatch returns the previous batch's array to the pool, then blocks
// for the next ready batch. It returns (nil, nil) once the producer has
// published everything and finished; a producer-side decode error is
// re-raised here, per spec §4.4.
func (b *AssemblyBuffer) AwaitNextBatch() (*Batch, error) {
	if b.previous != nil {
		b.pool <- b.previous.Values[:0]
		b.previous = nil
	}

	res, ok := <-b.ready
	if !ok {
		return nil, nil
	}
	if res.err != nil {
		return nil, res.err
	}
	b.previous = res.batch
	return res.batch, nil
}
