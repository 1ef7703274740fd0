package urlcat

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

func TestReader(t *testing.T) {
	r := NewReader(seqOf("abc", "", "defgh", "i"))
	defer r.Close()

	if err := iotest.TestReader(r, []byte("abcdefghi")); err != nil {
		t.Error(err)
	}
}

func TestReaderSmallBuffer(t *testing.T) {
	r := NewReader(seqOf("abcdef", "gh"))
	defer r.Close()

	got, err := io.ReadAll(iotest.OneByteReader(r))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "abcdefgh" {
		t.Errorf("expected 'abcdefgh', got %q", got)
	}
}

func TestReaderError(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(failingSeq(boom, "ab"))
	defer r.Close()

	got, err := io.ReadAll(r)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if string(got) != "ab" {
		t.Errorf("expected 'ab' before the error, got %q", got)
	}

	if _, err := r.Read(make([]byte, 1)); !errors.Is(err, boom) {
		t.Errorf("expected boom to stick, got %v", err)
	}
}

func TestReaderCloseStopsSequence(t *testing.T) {
	stopped := false
	seq := func(yield func([]byte, error) bool) {
		defer func() { stopped = true }()
		for {
			if !yield([]byte("x"), nil) {
				return
			}
		}
	}

	r := NewReader(seq)
	if _, err := r.Read(make([]byte, 4)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !stopped {
		t.Error("expected Close to stop the sequence")
	}
	if _, err := r.Read(make([]byte, 1)); err != io.ErrClosedPipe {
		t.Errorf("expected io.ErrClosedPipe after Close, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("expected second Close to be a no-op, got %v", err)
	}
}

func TestReaderWriteTo(t *testing.T) {
	r := NewReader(seqOf("ab", "cd", "ef"))
	defer r.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if n != 6 || buf.String() != "abcdef" {
		t.Errorf("expected 6 bytes 'abcdef', got %d %q", n, buf.String())
	}
}
