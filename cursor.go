package parquet

import "sync"

// startDepth and maxDepth bound the Page Cursor's adaptive prefetch queue,
// per spec §4.3: start shallow, grow on misses, never exceed the cap.
const (
	startDepth = 4
	maxDepth   = 8
)

// PageSource is anything that yields a column's decoded pages in file
// order, one at a time. Cursor is the only direct implementation; chainedCursor
// composes several of them end to end so a projected column spanning
// multiple row groups reads as a single source.
type PageSource interface {
	NextPage() (*Page, error)
	Close() error
}

// chainedCursor concatenates several PageSources, exhausting each in order
// before moving to the next, so one leaf column's pages across every row
// group of a file can be pulled through a single PageSource.
type chainedCursor struct {
	sources []PageSource
	i       int
}

// ChainCursors returns a PageSource that reads every source in order.
func ChainCursors(sources ...PageSource) PageSource {
	return &chainedCursor{sources: sources}
}

func (c *chainedCursor) NextPage() (*Page, error) {
	for c.i < len(c.sources) {
		page, err := c.sources[c.i].NextPage()
		if err != nil {
			return nil, err
		}
		if page != nil {
			return page, nil
		}
		c.i++
	}
	return nil, nil
}

func (c *chainedCursor) Close() error {
	var firstErr error
	for _, s := range c.sources {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// pageFuture is a single-assignment, channel-backed future for a decoded
// Page, shared by every Cursor rather than reimplemented per column.
type pageFuture struct {
	done chan struct{}
	page *Page
	err  error
}

func newPageFuture() *pageFuture {
	return &pageFuture{done: make(chan struct{})}
}

func (f *pageFuture) complete(page *Page, err error) {
	f.page, f.err = page, err
	close(f.done)
}

// ready reports whether the future has already completed, without blocking.
func (f *pageFuture) ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// join blocks until the future completes and returns its result.
func (f *pageFuture) join() (*Page, error) {
	<-f.done
	return f.page, f.err
}

// Cursor is the Page Cursor of spec §4.3: one per projected column, wrapping
// a column chunk's PageInfo list and an Executor shared across columns. It
// maintains a bounded FIFO of in-flight decode futures, growing its target
// prefetch depth whenever NextPage observes a miss.
type Cursor struct {
	path        string
	dict        *Dictionary
	maxDefLevel int32
	maxRepLevel int32
	executor    *Executor

	mu         sync.Mutex
	pages      []PageInfo
	nextSubmit int
	queue      []*pageFuture
	depth      int
	depthCap   int
	closed     bool
}

// NewCursor constructs a Cursor over pages and immediately submits up to
// startDepth of them for decoding. depthCap overrides the default hard cap
// on prefetch depth (spec §13 PrefetchDepthCap); a depthCap <= 0 falls back
// to maxDepth.
func NewCursor(path string, pages []PageInfo, dict *Dictionary, maxDefLevel, maxRepLevel int32, executor *Executor, depthCap int) *Cursor {
	if depthCap <= 0 {
		depthCap = maxDepth
	}
	c := &Cursor{
		path:        path,
		pages:       pages,
		dict:        dict,
		maxDefLevel: maxDefLevel,
		maxRepLevel: maxRepLevel,
		executor:    executor,
		depth:       startDepth,
		depthCap:    depthCap,
	}
	c.fill()
	return c
}

// fill submits pending pages until the queue holds depth futures or no
// pages remain, per spec §4.3 "fill()".
func (c *Cursor) fill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fillLocked()
}

func (c *Cursor) fillLocked() {
	for !c.closed && len(c.queue) < c.depth && c.nextSubmit < len(c.pages) {
		info := c.pages[c.nextSubmit]
		c.nextSubmit++

		fut := newPageFuture()
		c.queue = append(c.queue, fut)

		dict, maxDef, maxRep, path := c.dict, c.maxDefLevel, c.maxRepLevel, c.path
		c.executor.Submit(func() {
			page, err := DecodePage(path, info, dict, maxDef, maxRep)
			fut.complete(page, err)
		})
	}
}

// NextPage returns the next page in file order, or (nil, nil) at EOF. It
// implements the miss-driven depth growth of spec §4.3: an empty queue with
// pages remaining, or a dequeued-but-incomplete future, each grow the
// target depth by one, clamped to the cursor's depth cap (maxDepth unless
// NewCursor was given another). Hits never shrink it back down.
func (c *Cursor) NextPage() (*Page, error) {
	c.mu.Lock()
	if len(c.queue) == 0 {
		if c.nextSubmit >= len(c.pages) {
			c.mu.Unlock()
			return nil, nil
		}
		c.growDepthLocked()
		info := c.pages[c.nextSubmit]
		c.nextSubmit++
		c.mu.Unlock()
		return DecodePage(c.path, info, c.dict, c.maxDefLevel, c.maxRepLevel)
	}

	fut := c.queue[0]
	c.queue = c.queue[1:]
	if !fut.ready() {
		c.growDepthLocked()
	}
	c.mu.Unlock()

	page, err := fut.join()
	c.fill()
	return page, err
}

func (c *Cursor) growDepthLocked() {
	if c.depth < c.depthCap {
		c.depth++
	}
}

// Close cancels pending futures by detaching the cursor from its page list
// and dropping its reference to the queue, per spec §4.3's cancellation
// requirement: in-flight decodes are allowed to run to completion, but
// their results are discarded and the column chunk's byte slices become
// collectible as soon as nothing else retains them.
func (c *Cursor) Close() error {
	c.mu.Lock()
	c.closed = true
	c.pages = nil
	c.queue = nil
	c.mu.Unlock()
	return nil
}
