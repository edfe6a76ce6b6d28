package shell

import (
	"errors"
	"fmt"
)

// Grammar, from highest to lowest precedence:
//
//	line := pipe ('&')*
//	pipe := exec ('|' pipe)?
//	exec := word*

var (
	// ErrSyntax is returned for a token that no rule accepts.
	ErrSyntax = errors.New("unexpected token")
	// ErrLeftover is returned when input remains after a complete line.
	ErrLeftover = errors.New("leftover input")
	// ErrTooManyArgs is returned when a command has more than MaxArgs words.
	ErrTooManyArgs = fmt.Errorf("more than %d arguments", MaxArgs)
	// ErrMissingCommand is returned when one side of a '|' is empty.
	ErrMissingCommand = errors.New("missing command around '|'")
)

// SyntaxError describes where parsing stopped.
type SyntaxError struct {
	Offset int
	Near   string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("syntax error at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("syntax error at offset %d near %q: %v", e.Offset, e.Near, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

type parser struct {
	s *Scanner
}

func (p *parser) errorf(offset int, err error) error {
	return &SyntaxError{Offset: offset, Near: string(p.s.buf[offset:p.s.end]), Err: err}
}

// Parse turns a line into a finalized command tree. The whole line must be
// consumed; anything left over is a syntax error.
func Parse(line string) (Command, error) {
	buf := []byte(line)
	p := &parser{s: NewScanner(buf)}

	cmd, err := p.parseLine()
	if err != nil {
		return nil, err
	}

	p.s.Peek("")
	if !p.s.AtEnd() {
		return nil, p.errorf(p.s.Pos(), ErrLeftover)
	}

	Finalize(buf, cmd)
	return cmd, nil
}

func (p *parser) parseLine() (Command, error) {
	cmd, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	for p.s.Peek("&") {
		p.s.Next()
		cmd = &BackCmd{Cmd: cmd}
	}
	return cmd, nil
}

func (p *parser) parsePipe() (Command, error) {
	cmd, err := p.parseExec()
	if err != nil {
		return nil, err
	}
	if !p.s.Peek("|") {
		return cmd, nil
	}

	bar := p.s.Next()
	right, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	if isEmpty(cmd) || isEmpty(right) {
		return nil, p.errorf(bar.Span.Start, ErrMissingCommand)
	}
	return &PipeCmd{Left: cmd, Right: right}, nil
}

func (p *parser) parseExec() (Command, error) {
	cmd := &ExecCmd{}
	for !p.s.Peek(symbols) {
		tok := p.s.Next()
		switch tok.Kind {
		case TokEOF:
			return cmd, nil
		case TokWord:
		default:
			return nil, p.errorf(tok.Span.Start, ErrSyntax)
		}

		if len(cmd.Spans) == MaxArgs {
			return nil, p.errorf(tok.Span.Start, ErrTooManyArgs)
		}
		cmd.Spans = append(cmd.Spans, tok.Span)
	}
	return cmd, nil
}

func isEmpty(cmd Command) bool {
	exec, ok := cmd.(*ExecCmd)
	return ok && len(exec.Spans) == 0
}
