package parquet

import (
	"errors"
	"testing"
)

// fakePageSource replays a fixed list of pages, then (nil, nil) at EOF, or a
// final error if errAtEnd is set.
type fakePageSource struct {
	pages    []*Page
	i        int
	errAtEnd error
}

func (f *fakePageSource) NextPage() (*Page, error) {
	if f.i < len(f.pages) {
		p := f.pages[f.i]
		f.i++
		return p, nil
	}
	if f.errAtEnd != nil {
		return nil, f.errAtEnd
	}
	return nil, nil
}

func (f *fakePageSource) Close() error { return nil }

func intPage(values ...int32) *Page {
	p := &Page{Values: make([]Value, len(values))}
	for i, v := range values {
		p.Values[i] = Int32Value(v)
	}
	return p
}

func TestAssemblyBufferBatchesByRowCount(t *testing.T) {
	src := &fakePageSource{pages: []*Page{intPage(1, 2, 3), intPage(4, 5), intPage(6)}}
	buf := NewAssemblyBuffer(src, 2, false)

	var batches [][]int32
	for {
		b, err := buf.AwaitNextBatch()
		if err != nil {
			t.Fatal(err)
		}
		if b == nil {
			break
		}
		row := make([]int32, len(b.Values))
		for i, v := range b.Values {
			row[i] = v.Int32()
		}
		batches = append(batches, row)
	}

	// capacity 2: batch at >=2 rows each time, flushing the tail at EOF.
	want := [][]int32{{1, 2, 3}, {4, 5}, {6}}
	if len(batches) != len(want) {
		t.Fatalf("got %v, want %v", batches, want)
	}
	for i := range want {
		if len(batches[i]) != len(want[i]) {
			t.Fatalf("batch %d: got %v, want %v", i, batches[i], want[i])
		}
		for j := range want[i] {
			if batches[i][j] != want[i][j] {
				t.Errorf("batch %d[%d]: got %d, want %d", i, j, batches[i][j], want[i][j])
			}
		}
	}
}

func TestAssemblyBufferReusesPooledArrays(t *testing.T) {
	src := &fakePageSource{pages: []*Page{intPage(1), intPage(2), intPage(3), intPage(4)}}
	buf := NewAssemblyBuffer(src, 1, false)

	for i := 0; i < 4; i++ {
		if _, err := buf.AwaitNextBatch(); err != nil {
			t.Fatal(err)
		}
	}
	if b, err := buf.AwaitNextBatch(); err != nil || b != nil {
		t.Fatalf("expected (nil, nil) at EOF, got (%v, %v)", b, err)
	}
}

func TestAssemblyBufferPropagatesProducerError(t *testing.T) {
	wantErr := errors.New("boom")
	src := &fakePageSource{pages: []*Page{intPage(1)}, errAtEnd: wantErr}
	buf := NewAssemblyBuffer(src, 4, false)

	if _, err := buf.AwaitNextBatch(); err != wantErr {
		t.Fatalf("expected producer error %v, got %v", wantErr, err)
	}
}

func TestAssemblyBufferTracksNulls(t *testing.T) {
	src := &fakePageSource{pages: []*Page{{Values: []Value{Int32Value(1), NullValue(), Int32Value(3)}}}}
	buf := NewAssemblyBuffer(src, 3, true)

	b, err := buf.AwaitNextBatch()
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Nulls) != 3 || b.Nulls[0] || !b.Nulls[1] || b.Nulls[2] {
		t.Errorf("expected nulls [false,true,false], got %v", b.Nulls)
	}
}
