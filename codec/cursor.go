// Package codec implements the BHV2 binary value codec: decoding one value
// from a byte cursor, structurally skipping one value without materializing
// it, and selectively decoding only named struct fields.
//
// All three operations walk the same recursive grammar:
//
//	value        := type_name dims payload(kind)
//	type_name    := u64(len) bytes(len)
//	dims         := u64(rank) u64[rank]
//	payload(fixed-width kinds) := bytes(width * element_count)
//	payload(struct) := u64(field_width) { u64(name_len) bytes value }...
//	payload(cell)   := { u64(name_len) bytes value }...
//
// and must consume exactly the same number of bytes for the same input.
// Skip in particular must parse every struct field and cell element name
// length before recursing, because a nested value's byte length is unknown
// until its own header is read; taking any shortcut here desynchronizes the
// stream silently.
package codec

import (
	"bufio"
	"fmt"
	"io"
)

// Cursor is the abstract sequential read position over the underlying byte
// stream. All multi-byte integers are little-endian.
//
// Implementations are not safe for concurrent use.
type Cursor interface {
	// ReadFull reads exactly len(buf) bytes. A short read returns
	// io.ErrUnexpectedEOF (or io.EOF when nothing was read).
	ReadFull(buf []byte) error

	// ReadUint64 reads one unsigned 64-bit little-endian integer.
	ReadUint64() (uint64, error)

	// Skip advances the cursor n bytes without materializing them. It fails
	// with io.ErrUnexpectedEOF if fewer than n bytes remain.
	Skip(n uint64) error

	// Offset returns the current position in bytes from the start of the
	// stream.
	Offset() int64
}

// SeekCursor is a Cursor over an io.ReadSeeker with a known total size.
// Skip is a relative seek; the size bound turns a seek past the end into an
// IO error instead of a silent desynchronization.
type SeekCursor struct {
	r    io.ReadSeeker
	size int64
	off  int64
	u64  [8]byte
}

var _ Cursor = (*SeekCursor)(nil)

// NewSeekCursor creates a cursor over r, which must be positioned at offset
// 0. size is the total stream length in bytes.
func NewSeekCursor(r io.ReadSeeker, size int64) *SeekCursor {
	return &SeekCursor{r: r, size: size}
}

// ReadFull implements Cursor.
func (c *SeekCursor) ReadFull(buf []byte) error {
	n, err := io.ReadFull(c.r, buf)
	c.off += int64(n)

	return err
}

// ReadUint64 implements Cursor.
func (c *SeekCursor) ReadUint64() (uint64, error) {
	if err := c.ReadFull(c.u64[:]); err != nil {
		return 0, err
	}

	return wireEngine.Uint64(c.u64[:]), nil
}

// Skip implements Cursor as a relative seek.
func (c *SeekCursor) Skip(n uint64) error {
	if n == 0 {
		return nil
	}
	if n > uint64(c.size-c.off) {
		return fmt.Errorf("skip %d bytes with %d remaining: %w", n, c.size-c.off, io.ErrUnexpectedEOF)
	}

	off, err := c.r.Seek(int64(n), io.SeekCurrent)
	if err != nil {
		return err
	}
	c.off = off

	return nil
}

// Offset implements Cursor.
func (c *SeekCursor) Offset() int64 { return c.off }

// Size returns the total stream length in bytes.
func (c *SeekCursor) Size() int64 { return c.size }

// Rewind seeks back to offset 0.
func (c *SeekCursor) Rewind() error {
	if _, err := c.r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	c.off = 0

	return nil
}

// ReaderCursor is a Cursor over a plain io.Reader for media that cannot
// seek (pipes, network streams). Skip degrades to a buffered discard-read.
type ReaderCursor struct {
	br  *bufio.Reader
	off int64
	u64 [8]byte
}

var _ Cursor = (*ReaderCursor)(nil)

// NewReaderCursor creates a discard-read cursor over r.
func NewReaderCursor(r io.Reader) *ReaderCursor {
	return &ReaderCursor{br: bufio.NewReaderSize(r, 64*1024)}
}

// ReadFull implements Cursor.
func (c *ReaderCursor) ReadFull(buf []byte) error {
	n, err := io.ReadFull(c.br, buf)
	c.off += int64(n)

	return err
}

// ReadUint64 implements Cursor.
func (c *ReaderCursor) ReadUint64() (uint64, error) {
	if err := c.ReadFull(c.u64[:]); err != nil {
		return 0, err
	}

	return wireEngine.Uint64(c.u64[:]), nil
}

// Skip implements Cursor by discarding n bytes from the buffered reader.
func (c *ReaderCursor) Skip(n uint64) error {
	for n > 0 {
		chunk := n
		const maxInt = uint64(int(^uint(0) >> 1))
		if chunk > maxInt {
			chunk = maxInt
		}

		discarded, err := c.br.Discard(int(chunk))
		c.off += int64(discarded)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}

			return err
		}
		n -= uint64(discarded)
	}

	return nil
}

// Offset implements Cursor.
func (c *ReaderCursor) Offset() int64 { return c.off }
