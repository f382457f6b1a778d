package csvparser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeError reports a byte that cannot be decoded under the strict policy.
type DecodeError struct {
	Encoding string
	Offset   int64
	Byte     byte
}

func (e *DecodeError) Error() string {
	if e.Byte == 0 {
		return fmt.Sprintf("'%s' codec can't decode input at position %d", e.Encoding, e.Offset)
	}
	return fmt.Sprintf("'%s' codec can't decode byte 0x%02x in position %d", e.Encoding, e.Byte, e.Offset)
}

// LookupEncoding resolves an encoding label. Latin-1 labels map to true
// ISO-8859-1 rather than the WHATWG windows-1252 alias.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return unicode.UTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1", "l1":
		return charmap.ISO8859_1, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// NewDecodingReader wraps r so that it yields UTF-8 text decoded from the
// named encoding, applying the given error policy to undecodable input.
// A leading UTF-8 byte order mark is dropped.
func NewDecodingReader(r io.Reader, name, mode string) (io.Reader, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}

	if enc == unicode.UTF8 {
		br := bufio.NewReader(r)
		if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := br.Discard(len(utf8BOM)); err != nil {
				return nil, err
			}
		}
		return transform.NewReader(br, &utf8Policy{mode: mode}), nil
	}

	label := strings.ToLower(strings.TrimSpace(name))
	chain := transform.Chain(enc.NewDecoder(), &replacementPolicy{mode: mode, label: label})
	return transform.NewReader(r, chain), nil
}

// =============================================================================
// ERROR POLICIES
// =============================================================================

// utf8Policy validates UTF-8 input and rewrites invalid bytes according to
// the error mode.
type utf8Policy struct {
	mode string
	pos  int64
}

func (p *utf8Policy) Reset() { p.pos = 0 }

func (p *utf8Policy) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	defer func() { p.pos += int64(nSrc) }()

	for nSrc < len(src) {
		c := src[nSrc]
		if c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r != utf8.RuneError || size > 1 {
			if nDst+size > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
			nSrc += size
			continue
		}

		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		var repl []byte
		switch p.mode {
		case "ignore":
		case "replace":
			repl = []byte(string(utf8.RuneError))
		case "backslashreplace":
			repl = []byte(fmt.Sprintf(`\x%02x`, c))
		case "surrogateescape":
			// The byte survives as the Latin-1 character of the same value.
			repl = []byte(string(rune(c)))
		default:
			return nDst, nSrc, &DecodeError{Encoding: "utf-8", Offset: p.pos + int64(nSrc), Byte: c}
		}

		if nDst+len(repl) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], repl)
		nSrc++
	}
	return nDst, nSrc, nil
}

// replacementPolicy applies the error mode to U+FFFD runes produced by an
// x/text decoder for input it could not map.
type replacementPolicy struct {
	mode  string
	label string
	pos   int64
}

func (p *replacementPolicy) Reset() { p.pos = 0 }

func (p *replacementPolicy) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	defer func() { p.pos += int64(nSrc) }()

	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError {
			switch p.mode {
			case "strict":
				return nDst, nSrc, &DecodeError{Encoding: p.label, Offset: p.pos + int64(nSrc)}
			case "ignore":
				nSrc += size
				continue
			}
		}

		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}
