// Package compress provides the generic APIs implemented by parquet compression
// codecs, plus a registry mapping the format.CompressionCodec enum to the
// concrete codec implementations in the compress sub-packages.
//
// https://github.com/apache/parquet-format/blob/master/Compression.md
package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/arrowlake/parquet/format"
)

// The Codec interface represents parquet compression codecs implemented by the
// compress sub-packages.
//
// Codec instances must be safe to use concurrently from multiple goroutines.
type Codec interface {
	// Returns a human-readable name for the codec.
	String() string

	// Returns the code of the compression codec in the parquet format.
	CompressionCodec() format.CompressionCodec

	// NewReader constructs a decompressing reader. r may be nil; the codec
	// must tolerate Reset being called later to attach an input.
	NewReader(r io.Reader) (Reader, error)

	// NewWriter constructs a compressing writer. w may be nil for the same
	// reason as NewReader.
	NewWriter(w io.Writer) (Writer, error)
}

type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

type Writer interface {
	io.WriteCloser
	Reset(io.Writer) error
}

// registry maps a format.CompressionCodec to the default Codec implementation
// wired for it. Populated by the sub-packages' init-time Register calls, one
// per sub-package, so that importing the compress package alone pulls in no
// third-party compression library; a caller only pays for the codecs it
// actually imports.
var (
	registryMu sync.RWMutex
	registry   = map[format.CompressionCodec]Codec{}
)

// Register installs codec as the implementation used for its
// CompressionCodec. Sub-packages call this from an init function.
func Register(codec Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[codec.CompressionCodec()] = codec
}

// LookupCodec returns the registered Codec for the given compression codec,
// or an error if no sub-package providing it has been imported.
func LookupCodec(c format.CompressionCodec) (Codec, error) {
	registryMu.RLock()
	codec := registry[c]
	registryMu.RUnlock()
	if codec == nil {
		return nil, fmt.Errorf("compress: no codec registered for %s (import its compress/... sub-package)", c)
	}
	return codec, nil
}

// Decompress decompresses src, which was compressed with c, reusing dst's
// storage for the output. It returns however many bytes the codec produces:
// it takes no expected length and does not check one, so callers compare the
// result against the page header's uncompressed size themselves.
func Decompress(c format.CompressionCodec, dst []byte, src []byte) ([]byte, error) {
	if c == format.Uncompressed {
		return append(dst[:0], src...), nil
	}
	codec, err := LookupCodec(c)
	if err != nil {
		return dst, err
	}
	r, err := codec.NewReader(bytes.NewReader(src))
	if err != nil {
		return dst, fmt.Errorf("compress: opening %s reader: %w", c, err)
	}
	defer r.Close()

	out := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(out, r); err != nil {
		return out.Bytes(), fmt.Errorf("compress: decompressing %s page: %w", c, err)
	}
	return out.Bytes(), nil
}

// Compressor pools writers so repeated calls to Encode avoid reallocating a
// fresh codec writer on every page.
type Compressor struct {
	writers sync.Pool
}

func (c *Compressor) Encode(dst, src []byte, newWriter func(io.Writer) (Writer, error)) ([]byte, error) {
	output := bytes.NewBuffer(dst[:0])

	w, _ := c.writers.Get().(Writer)
	if w != nil {
		if err := w.Reset(output); err != nil {
			return dst, err
		}
	} else {
		var err error
		if w, err = newWriter(output); err != nil {
			return dst, err
		}
	}
	defer c.writers.Put(w)
	defer w.Reset(io.Discard)

	if _, err := w.Write(src); err != nil {
		return output.Bytes(), err
	}
	if err := w.Close(); err != nil {
		return output.Bytes(), err
	}
	return output.Bytes(), nil
}

// Decompressor pools readers so repeated calls to Decode avoid reallocating a
// fresh codec reader on every page.
type Decompressor struct {
	readers sync.Pool
}

func (d *Decompressor) Decode(dst, src []byte, newReader func(io.Reader) (Reader, error)) ([]byte, error) {
	input := bytes.NewReader(src)

	r, _ := d.readers.Get().(Reader)
	if r != nil {
		if err := r.Reset(input); err != nil {
			return dst, err
		}
	} else {
		var err error
		if r, err = newReader(input); err != nil {
			return dst, err
		}
	}

	defer func() {
		if err := r.Reset(nil); err == nil {
			d.readers.Put(r)
		}
	}()

	output := bytes.NewBuffer(dst[:0])
	_, err := output.ReadFrom(r)
	return output.Bytes(), err
}
