package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
)

// lineReader yields input lines without their trailing newline.
type lineReader interface {
	// ReadLine returns io.EOF once input is exhausted. A final line without a
	// newline is returned with a nil error first.
	ReadLine(prompt string) (string, error)
	Close() error
}

// byteLineReader reads one byte at a time so input following the current
// line is left for the commands that run next.
type byteLineReader struct {
	in     io.Reader
	prompt io.Writer
}

func (r *byteLineReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.prompt, prompt)

	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.in.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				return line.String(), nil
			}
			line.WriteByte(buf[0])
			continue
		}
		switch {
		case errors.Is(err, io.EOF) && line.Len() > 0:
			return line.String(), nil
		case err != nil:
			return "", err
		}
	}
}

func (r *byteLineReader) Close() error {
	return nil
}

// readlineReader edits lines on an interactive terminal.
type readlineReader struct {
	rl *readline.Instance
}

func newReadlineReader(stdin io.ReadCloser, stdout, stderr io.Writer) (*readlineReader, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,

		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	return &readlineReader{rl: rl}, nil
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}
