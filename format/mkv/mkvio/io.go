package mkvio

import (
	"bufio"
	"io"
	"sync"
)

// Reader is a buffered byte source that tracks its absolute position.
// Skips and seeks go to the underlying io.Seeker when there is one.
type Reader struct {
	r   io.Reader
	br  *bufio.Reader
	s   io.Seeker
	pos int64
}

func NewReader(r io.Reader) *Reader {
	rd := &Reader{r: r, br: bufio.NewReader(r)}
	if s, ok := r.(io.Seeker); ok {
		if p, err := s.Seek(0, io.SeekCurrent); err == nil {
			rd.s = s
			rd.pos = p
		}
	}
	return rd
}

func (rd *Reader) ReadByte() (byte, error) {
	b, err := rd.br.ReadByte()
	if err == nil {
		rd.pos++
	}
	return b, err
}

func (rd *Reader) Read(p []byte) (int, error) {
	n, err := rd.br.Read(p)
	rd.pos += int64(n)
	return n, err
}

// Skip advances n bytes and returns how many were skipped.
func (rd *Reader) Skip(n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	if rd.s != nil && n > int64(rd.br.Buffered()) {
		if err := rd.SeekTo(rd.pos + n); err != nil {
			return 0, err
		}
		return n, nil
	}
	m, err := io.CopyN(io.Discard, rd.br, n)
	rd.pos += m
	return m, eofIsUnexpected(err)
}

func (rd *Reader) Position() int64 {
	return rd.pos
}

func (rd *Reader) Seekable() bool {
	return rd.s != nil
}

// SeekTo moves to the absolute offset pos.
func (rd *Reader) SeekTo(pos int64) error {
	if rd.s == nil {
		return ErrNotSeekable
	}
	if _, err := rd.s.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	rd.br.Reset(rd.r)
	rd.pos = pos
	return nil
}

// Sink is a byte sink that tracks its absolute position. When the
// underlying writer can seek, WriteAt patches earlier bytes.
type Sink struct {
	mu  sync.Mutex
	w   io.Writer
	s   io.Seeker
	pos int64
}

func NewSink(w io.Writer) *Sink {
	sk := &Sink{w: w}
	if s, ok := w.(io.Seeker); ok {
		if p, err := s.Seek(0, io.SeekCurrent); err == nil {
			sk.s = s
			sk.pos = p
		}
	}
	return sk
}

func (sk *Sink) Write(p []byte) (int, error) {
	sk.mu.Lock()
	defer sk.mu.Unlock()

	n, err := sk.w.Write(p)
	sk.pos += int64(n)
	return n, err
}

func (sk *Sink) Position() int64 {
	sk.mu.Lock()
	defer sk.mu.Unlock()
	return sk.pos
}

func (sk *Sink) Seekable() bool {
	return sk.s != nil
}

// WriteAt overwrites bytes at off and restores the write position.
// No other write can interleave.
func (sk *Sink) WriteAt(p []byte, off int64) (int, error) {
	if sk.s == nil {
		return 0, ErrNotSeekable
	}

	sk.mu.Lock()
	defer sk.mu.Unlock()

	if _, err := sk.s.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, werr := sk.w.Write(p)
	if _, err := sk.s.Seek(sk.pos, io.SeekStart); err != nil {
		return n, err
	}
	return n, werr
}
