package urlcat

import (
	"io"
	"iter"
)

// Reader adapts a chunk sequence to io.ReadCloser. The sequence is pulled
// on demand; Close stops it and releases whatever it holds open.
type Reader struct {
	next   func() ([]byte, error, bool)
	stop   func()
	buf    []byte
	err    error
	closed bool
}

// NewReader returns a Reader over seq. The caller must call Close.
func NewReader(seq iter.Seq2[[]byte, error]) *Reader {
	next, stop := iter.Pull2(seq)
	return &Reader{next: next, stop: stop}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p) == 0 {
		return 0, nil
	}

	for {
		if len(r.buf) > 0 {
			n := copy(p, r.buf)
			r.buf = r.buf[n:]
			return n, nil
		}
		if r.err != nil {
			return 0, r.err
		}

		r.fill()
	}
}

// Close implements io.Closer.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.buf = nil
	r.stop()
	return nil
}

// WriteTo implements io.WriterTo so io.Copy forwards chunks without an
// intermediate buffer.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.closed {
		return 0, io.ErrClosedPipe
	}

	var written int64
	for {
		if len(r.buf) > 0 {
			n, err := w.Write(r.buf)
			written += int64(n)
			r.buf = r.buf[n:]
			if err != nil {
				return written, err
			}
			if len(r.buf) > 0 {
				return written, io.ErrShortWrite
			}
			continue
		}
		if r.err == io.EOF {
			return written, nil
		}
		if r.err != nil {
			return written, r.err
		}

		r.fill()
	}
}

// fill pulls the next chunk, recording the end of the sequence or its error.
func (r *Reader) fill() {
	chunk, err, ok := r.next()
	switch {
	case !ok:
		r.err = io.EOF
	case err != nil:
		r.err = err
		r.stop()
	default:
		r.buf = chunk
	}
}
