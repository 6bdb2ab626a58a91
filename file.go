package bhv2

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prestolab/bhv2/codec"
	"github.com/prestolab/bhv2/compress"
	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/internal/options"
	"github.com/prestolab/bhv2/value"
)

type sessionState uint8

const (
	stateAtName sessionState = iota
	stateAtData
	stateExhausted
	stateClosed
)

// File is a streaming session over one BHV2 file.
//
// The session is a strict state machine: NextName is valid only when
// positioned at a variable name; exactly one of ReadValue,
// ReadValueSelective or SkipValue must follow before the next NextName.
// Misuse returns a protocol error (errs.ErrAtData / errs.ErrNotAtData),
// distinct from data corruption.
//
// A File owns its underlying descriptor exclusively and releases it exactly
// once, on Close. It is not safe for concurrent use.
type File struct {
	path   string
	osFile *os.File // nil when the session runs over a memory buffer or reader
	cursor codec.Cursor
	size   int64 // -1 when unknown (non-seekable reader sessions)
	state  sessionState
}

type fileConfig struct {
	compression compress.Type
	autoDetect  bool
}

// Option configures Open.
type Option = options.Option[*fileConfig]

// WithCompression forces the given compression codec instead of detecting
// it from the file extension. Use compress.None to disable decompression
// entirely.
func WithCompression(t compress.Type) Option {
	return options.NoError(func(cfg *fileConfig) {
		cfg.compression = t
		cfg.autoDetect = false
	})
}

// Open opens a BHV2 file for sequential reading and positions the session
// at the first variable name.
//
// Files whose names end in .zst, .zstd, .s2 or .lz4 are decompressed into
// memory first; everything else reads directly from the descriptor with
// seek-based skipping.
func Open(path string, opts ...Option) (*File, error) {
	cfg := &fileConfig{autoDetect: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.autoDetect {
		cfg.compression = compress.DetectPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if cfg.compression == compress.None {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}

		return &File{
			path:   path,
			osFile: f,
			cursor: codec.NewSeekCursor(f, info.Size()),
			size:   info.Size(),
		}, nil
	}

	// Compressed container: inflate the whole file and run the session
	// over the decompressed bytes. The descriptor is no longer needed.
	compressed, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	cc, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	data, err := cc.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}

	return &File{
		path:   path,
		cursor: codec.NewSeekCursor(bytes.NewReader(data), int64(len(data))),
		size:   int64(len(data)),
	}, nil
}

// OpenReader opens a session over an arbitrary byte stream, for piped or
// remote input. Skipping degrades from seeking to discard-reads and Rewind
// is unavailable. The caller retains ownership of r.
func OpenReader(r io.Reader) *File {
	return &File{
		path:   "<reader>",
		cursor: codec.NewReaderCursor(r),
		size:   -1,
	}
}

// Path returns the path the session was opened with.
func (f *File) Path() string { return f.path }

// Size returns the total byte size of the (decompressed) stream, or -1
// when unknown.
func (f *File) Size() int64 { return f.size }

// Offset returns the current cursor position.
func (f *File) Offset() int64 { return f.cursor.Offset() }

// NextName reads the next top-level variable name and positions the
// session at its data.
//
// At end of stream it returns io.EOF — a normal condition, not an error in
// the taxonomy sense — and keeps returning io.EOF on repeated calls.
// Calling NextName while positioned at data is a protocol error.
func (f *File) NextName() (string, error) {
	switch f.state {
	case stateClosed:
		return "", errs.ErrClosed
	case stateExhausted:
		return "", io.EOF
	case stateAtData:
		return "", fmt.Errorf("%w: call ReadValue, ReadValueSelective or SkipValue first", errs.ErrAtData)
	}

	if f.size >= 0 && f.cursor.Offset() >= f.size {
		f.state = stateExhausted
		return "", io.EOF
	}

	name, err := codec.ReadName(f.cursor)
	if err != nil {
		// With an unknown stream size, end of stream shows up as a clean
		// EOF on the name-length read.
		if f.size < 0 && errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			f.state = stateExhausted
			return "", io.EOF
		}

		return "", err
	}
	f.state = stateAtData

	return name, nil
}

// ReadValue fully decodes the variable whose name was just read.
func (f *File) ReadValue() (*value.Value, error) {
	if err := f.requireAtData(); err != nil {
		return nil, err
	}

	v, err := codec.Decode(f.cursor)
	if err != nil {
		return nil, err
	}
	f.state = stateAtName

	return v, nil
}

// ReadValueSelective decodes the variable whose name was just read,
// materializing only the named struct fields; the rest are structurally
// skipped, leaving hole slots. Non-struct variables decode fully.
func (f *File) ReadValueSelective(fields ...string) (*value.Value, error) {
	if err := f.requireAtData(); err != nil {
		return nil, err
	}

	v, err := codec.DecodeSelective(f.cursor, codec.NewFieldSet(fields...))
	if err != nil {
		return nil, err
	}
	f.state = stateAtName

	return v, nil
}

// SkipValue advances past the variable whose name was just read without
// materializing it.
func (f *File) SkipValue() error {
	if err := f.requireAtData(); err != nil {
		return err
	}

	if err := codec.Skip(f.cursor); err != nil {
		return err
	}
	f.state = stateAtName

	return nil
}

// ReadNextVariable reads the next (name, value) pair fully. It returns
// io.EOF at end of stream.
func (f *File) ReadNextVariable() (string, *value.Value, error) {
	name, err := f.NextName()
	if err != nil {
		return "", nil, err
	}

	v, err := f.ReadValue()
	if err != nil {
		return "", nil, err
	}

	return name, v, nil
}

// Rewind resets the session to the first variable name, regardless of its
// current phase. Values already decoded remain valid; dropping them is the
// caller's concern. Reader-backed sessions cannot rewind.
func (f *File) Rewind() error {
	if f.state == stateClosed {
		return errs.ErrClosed
	}

	sc, ok := f.cursor.(*codec.SeekCursor)
	if !ok {
		return fmt.Errorf("%w: cannot rewind", errs.ErrNotSeekable)
	}
	if err := sc.Rewind(); err != nil {
		return err
	}
	f.state = stateAtName

	return nil
}

// Close releases the underlying descriptor. It is idempotent; all other
// operations fail with errs.ErrClosed afterward.
func (f *File) Close() error {
	if f.state == stateClosed {
		return nil
	}
	f.state = stateClosed

	if f.osFile != nil {
		err := f.osFile.Close()
		f.osFile = nil

		return err
	}

	return nil
}

func (f *File) requireAtData() error {
	switch f.state {
	case stateClosed:
		return errs.ErrClosed
	case stateAtData:
		return nil
	default:
		return fmt.Errorf("%w: call NextName first", errs.ErrNotAtData)
	}
}
