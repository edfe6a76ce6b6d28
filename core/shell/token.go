package shell

import "strings"

const (
	whitespace = " \t\r\n\v"
	symbols    = "|&"
)

// TokenKind classifies a token read by a Scanner.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokWord
	TokPipe
	TokBack
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokWord:
		return "word"
	case TokPipe:
		return "'|'"
	case TokBack:
		return "'&'"
	default:
		return "unknown token"
	}
}

// Token is a single lexical unit. Span is only meaningful for words.
type Token struct {
	Kind TokenKind
	Span Span
}

// Scanner splits a bounded buffer into tokens.
type Scanner struct {
	buf []byte
	pos int
	end int
}

// NewScanner creates a scanner over all of buf.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf, end: len(buf)}
}

// Pos returns the cursor offset.
func (s *Scanner) Pos() int {
	return s.pos
}

// Rest returns the unconsumed input.
func (s *Scanner) Rest() string {
	return string(s.buf[s.pos:s.end])
}

// AtEnd reports whether the cursor sits exactly on the end bound.
func (s *Scanner) AtEnd() bool {
	return s.pos == s.end
}

func (s *Scanner) skipSpace() {
	for s.pos < s.end && isSpace(s.buf[s.pos]) {
		s.pos++
	}
}

// current returns the byte under the cursor, treating the bound and NUL alike.
func (s *Scanner) current() byte {
	if s.pos >= s.end {
		return 0
	}
	return s.buf[s.pos]
}

// Next consumes and returns the next token. Whitespace on either side of the
// token is skipped. A NUL byte ends the input just like the bound does.
func (s *Scanner) Next() Token {
	s.skipSpace()

	var tok Token
	tok.Span.Start = s.pos
	switch c := s.current(); c {
	case 0:
		tok.Kind = TokEOF
	case '|':
		tok.Kind = TokPipe
		s.pos++
	case '&':
		tok.Kind = TokBack
		s.pos++
	default:
		tok.Kind = TokWord
		for s.pos < s.end && !isSpace(s.buf[s.pos]) && !isSymbol(s.buf[s.pos]) && s.buf[s.pos] != 0 {
			s.pos++
		}
	}
	tok.Span.End = s.pos

	s.skipSpace()
	return tok
}

// Peek skips whitespace and reports whether the next byte is one of set. The
// byte itself is not consumed.
func (s *Scanner) Peek(set string) bool {
	s.skipSpace()
	c := s.current()
	return c != 0 && strings.IndexByte(set, c) >= 0
}

func isSpace(c byte) bool {
	return strings.IndexByte(whitespace, c) >= 0
}

func isSymbol(c byte) bool {
	return strings.IndexByte(symbols, c) >= 0
}
