package scryfall

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode"
)

// ErrUnsupportedRoot is returned when the input is neither a JSON array nor
// a stream of JSON objects.
var ErrUnsupportedRoot = errors.New("scryfall: unsupported root value (want array or object)")

// RecordError reports a single record that was well-formed JSON but did not
// fit the Card shape (for example a number where a string was expected).
// The decoder has already moved past the record, so callers may continue.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("scryfall: record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Decoder reads Card values one at a time from a bulk export. It accepts the
// documented layout (a single top-level array) as well as newline-delimited
// objects, and never holds more than one record in memory.
type Decoder struct {
	br      *bufio.Reader
	dec     *json.Decoder
	started bool
	array   bool
	done    bool
	index   int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{br: bufio.NewReaderSize(r, 1<<20)}
}

// start skips leading whitespace and a UTF-8 byte order mark, then decides
// between array and object-stream mode.
func (d *Decoder) start() error {
	d.started = true

	var first rune
	for {
		r, _, err := d.br.ReadRune()
		if err == io.EOF {
			d.done = true
			return io.EOF
		}
		if err != nil {
			return fmt.Errorf("scryfall: read: %w", err)
		}
		if r == '\uFEFF' || unicode.IsSpace(r) {
			continue
		}
		if err := d.br.UnreadRune(); err != nil {
			return fmt.Errorf("scryfall: read: %w", err)
		}
		first = r
		break
	}

	switch first {
	case '[':
		d.array = true
	case '{':
	default:
		return fmt.Errorf("%w: got %q", ErrUnsupportedRoot, first)
	}

	d.dec = json.NewDecoder(d.br)
	if d.array {
		if _, err := d.dec.Token(); err != nil {
			return fmt.Errorf("scryfall: read array start: %w", err)
		}
	}
	return nil
}

// Next returns the next record. It returns io.EOF once the input is
// exhausted and a *RecordError for a record that could be skipped; any other
// error means the stream cannot be read further.
func (d *Decoder) Next() (Card, error) {
	if d.done {
		return Card{}, io.EOF
	}
	if !d.started {
		if err := d.start(); err != nil {
			d.done = true
			return Card{}, err
		}
	}

	if d.array && !d.dec.More() {
		d.done = true
		if _, err := d.dec.Token(); err != nil && err != io.EOF {
			return Card{}, fmt.Errorf("scryfall: read array end: %w", err)
		}
		return Card{}, io.EOF
	}

	var c Card
	err := d.dec.Decode(&c)
	idx := d.index
	d.index++
	if err == nil {
		c.Ordinal = idx
		return c, nil
	}
	if err == io.EOF && !d.array {
		d.done = true
		return Card{}, io.EOF
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Card{}, &RecordError{Index: idx, Err: err}
	}
	d.done = true
	return Card{}, fmt.Errorf("scryfall: decode record %d: %w", idx, err)
}

// NextBatch collects up to size records. Skippable record errors are passed
// to onRecordErr (which may be nil) and do not end the batch. It returns
// io.EOF only when no records remain; a final short batch is returned with a
// nil error.
func (d *Decoder) NextBatch(ctx context.Context, size int, onRecordErr func(*RecordError)) ([]Card, error) {
	if size <= 0 {
		return nil, fmt.Errorf("scryfall: batch size must be > 0")
	}
	batch := make([]Card, 0, size)
	for len(batch) < size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := d.Next()
		if err == io.EOF {
			break
		}
		var recErr *RecordError
		if errors.As(err, &recErr) {
			if onRecordErr != nil {
				onRecordErr(recErr)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		batch = append(batch, c)
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}
