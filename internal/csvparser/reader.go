package csvparser

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/sin4ts/csv2xlsx/internal/types"
)

// Reader splits delimited text into rows.
//
// Unlike encoding/csv it accepts any quote character (or none), keeps blank
// lines as empty rows and never rejects stray quotes:
//   - a quote opening a field starts a quoted section
//   - a doubled quote inside a quoted section is a literal quote
//   - text after a closing quote is appended to the field
//   - a quote in the middle of an unquoted field is literal
//   - \n, \r and \r\n end a record outside quoted sections
type Reader struct {
	// Comma is the field delimiter.
	Comma rune

	// Quote is the quote character; zero disables quoting.
	Quote rune

	r    *bufio.Reader
	line int
}

// NewReader returns a Reader with comma-separated, double-quoted defaults.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		Comma: ',',
		Quote: '"',
		r:     bufio.NewReader(r),
	}
}

// Line returns the number of the last line read (1-indexed).
func (r *Reader) Line() int {
	return r.line
}

type readState int

const (
	stateStartRecord readState = iota
	stateStartField
	stateInField
	stateInQuoted
	stateQuoteInQuoted
)

// Read returns the next row, or io.EOF when the input is exhausted.
func (r *Reader) Read() (types.Row, error) {
	var (
		row   = types.Row{}
		field strings.Builder
		state = stateStartRecord
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}

	for {
		c, _, err := r.r.ReadRune()
		if errors.Is(err, io.EOF) {
			if state == stateStartRecord {
				return nil, io.EOF
			}
			r.line++
			endField()
			return row, nil
		}
		if err != nil {
			return nil, err
		}

		if state == stateStartRecord {
			if c == '\n' || c == '\r' {
				r.endLine(c)
				return row, nil
			}
			state = stateStartField
		}

		switch state {
		case stateStartField:
			switch {
			case r.Quote != 0 && c == r.Quote:
				state = stateInQuoted
			case c == r.Comma:
				endField()
			case c == '\n' || c == '\r':
				r.endLine(c)
				endField()
				return row, nil
			default:
				field.WriteRune(c)
				state = stateInField
			}

		case stateInField:
			switch {
			case c == r.Comma:
				endField()
				state = stateStartField
			case c == '\n' || c == '\r':
				r.endLine(c)
				endField()
				return row, nil
			default:
				field.WriteRune(c)
			}

		case stateInQuoted:
			switch c {
			case r.Quote:
				state = stateQuoteInQuoted
			case '\n':
				r.line++
				field.WriteRune(c)
			default:
				field.WriteRune(c)
			}

		case stateQuoteInQuoted:
			switch {
			case c == r.Quote:
				field.WriteRune(c)
				state = stateInQuoted
			case c == r.Comma:
				endField()
				state = stateStartField
			case c == '\n' || c == '\r':
				r.endLine(c)
				endField()
				return row, nil
			default:
				field.WriteRune(c)
				state = stateInField
			}
		}
	}
}

// ReadAll reads every remaining row.
func (r *Reader) ReadAll() (types.RowBuffer, error) {
	var rows types.RowBuffer
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// endLine counts a line break, swallowing the \n of a \r\n pair.
func (r *Reader) endLine(c rune) {
	r.line++
	if c != '\r' {
		return
	}
	if next, _, err := r.r.ReadRune(); err == nil && next != '\n' {
		_ = r.r.UnreadRune()
	}
}
