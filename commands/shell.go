package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/xvsh/core/config"
	"github.com/josephlewis42/xvsh/core/logger"
	"github.com/josephlewis42/xvsh/core/shell"
	"github.com/josephlewis42/xvsh/core/vos"
)

// ErrLineTooLong is reported for input lines over the configured limit.
var ErrLineTooLong = errors.New("line too long")

// Shell reads lines and runs each one in a process of its own.
type Shell struct {
	OS     vos.VOS
	Stdio  vos.VIO
	Config *config.Configuration
	Events *logger.SessionLogger
	Color  *ColorPrinter

	// Interactive selects line editing instead of plain reads.
	Interactive bool

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a shell reading from stdio. Line editing is turned on when
// both stdin and stderr are terminals.
func NewShell(virtualOS vos.VOS, stdio vos.VIO, cfg *config.Configuration, events *logger.SessionLogger) *Shell {
	if cfg == nil {
		cfg = config.Default()
	}
	if events == nil {
		events = logger.NewDiscardLogger().Sessionless()
	}

	return &Shell{
		OS:     virtualOS,
		Stdio:  stdio,
		Config: cfg,
		Events: events,
		Color: &ColorPrinter{
			Mode: cfg.Color,
			Out:  stdio.Stderr(),
		},
		Interactive: isTerminal(stdio.Stdin()) && isTerminal(stdio.Stderr()),
	}
}

// Run reads and runs lines until end of input or exit, returning the status
// the shell should exit with.
func (s *Shell) Run(ctx context.Context) int {
	reader, err := s.newLineReader()
	if err != nil {
		s.diagnose(err)
		return shell.ExitFailure
	}
	defer reader.Close()

	s.record(&logger.LogEntry{Type: logger.EventSessionStart, Pid: s.OS.Getpid()})
	defer s.record(&logger.LogEntry{Type: logger.EventSessionEnd})

	for !s.Quit {
		line, err := reader.ReadLine(s.Config.Prompt)

		switch {
		case err == io.EOF:
			return shell.ExitSuccess // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			s.diagnose(err)
			return shell.ExitFailure
		}

		if err := s.RunLine(ctx, line); err != nil {
			s.diagnose(err)
			return shell.ExitFailure
		}
	}
	return shell.ExitSuccess
}

func (s *Shell) newLineReader() (lineReader, error) {
	if s.Interactive {
		return newReadlineReader(s.Stdio.Stdin(), s.Stdio.Stderr(), s.Stdio.Stderr())
	}
	return &byteLineReader{in: s.Stdio.Stdin(), prompt: s.Stdio.Stderr()}, nil
}

// RunLine runs a single line of input in a child process and waits for it.
// Problems with the line itself are reported and swallowed; the returned
// error means the shell can't continue.
func (s *Shell) RunLine(ctx context.Context, line string) error {
	if s.runBuiltin(line) {
		return nil
	}

	cmd, err := s.parse(line)
	if err != nil {
		s.diagnose(err)
		return nil
	}

	// Nothing to run, skip creating a process.
	if exec, ok := cmd.(*shell.ExecCmd); ok && len(exec.Args) == 0 {
		return nil
	}

	script := cmd.String()
	proc, err := s.OS.Fork(ctx, script, &vos.ProcAttr{Env: s.OS.Environ(), Files: s.Stdio})
	if err != nil {
		s.record(&logger.LogEntry{Type: logger.EventForkFailed, Command: script, Error: err.Error()})
		return &shell.ForkError{Err: err}
	}
	s.record(runCommandEntry(cmd, proc.Pid()))

	if err := proc.Wait(); err != nil {
		s.record(&logger.LogEntry{
			Type:    logger.EventCommandFailed,
			Command: script,
			Error:   err.Error(),
			Pid:     proc.Pid(),
		})
	}
	return nil
}

// RunScript runs line in the current process, as `xvsh -c` does, and returns
// the exit status. Unlike interactive input, a syntax error is fatal.
func (s *Shell) RunScript(ctx context.Context, line string) int {
	if s.runBuiltin(line) {
		return shell.ExitSuccess
	}

	cmd, err := s.parse(line)
	if err != nil {
		s.diagnose(err)
		return shell.ExitFailure
	}
	s.record(runCommandEntry(cmd, s.OS.Getpid()))

	ex := &shell.Executor{OS: s.OS, Stdio: s.Stdio, Prompt: s.Config.Prompt}
	if err := ex.Run(ctx, cmd); err != nil {
		s.diagnose(err)
		return shell.ExitFailure
	}
	return shell.ExitSuccess
}

// runBuiltin runs line as a builtin if it names one, returning whether it did.
func (s *Shell) runBuiltin(line string) bool {
	// Matched on the raw prefix, so "exit", "exit 1" and "exits" all qualify.
	if !strings.HasPrefix(line, ExitPrefix) {
		return false
	}

	args := strings.Fields(line)
	args[0] = ExitPrefix
	AllBuiltins[ExitPrefix].Main(s, args)
	return true
}

// parse checks the line length and parses it, logging rejected lines.
func (s *Shell) parse(line string) (shell.Command, error) {
	// The limit counts the terminating newline.
	if limit := s.Config.MaxLineLength - 1; len(line)+1 > limit {
		err := fmt.Errorf("%w: %d bytes, the limit is %d", ErrLineTooLong, len(line)+1, limit)
		s.record(&logger.LogEntry{Type: logger.EventLineTooLong, Error: err.Error()})
		return nil, err
	}

	cmd, err := shell.Parse(line)
	if err != nil {
		s.record(&logger.LogEntry{Type: logger.EventSyntaxError, Command: line, Error: err.Error()})
		return nil, err
	}
	return cmd, nil
}

func runCommandEntry(cmd shell.Command, pid int) *logger.LogEntry {
	_, background := cmd.(*shell.BackCmd)
	return &logger.LogEntry{
		Type:       logger.EventRunCommand,
		Command:    cmd.String(),
		Pid:        pid,
		Stages:     shell.Leaves(cmd),
		Background: background,
	}
}

func (s *Shell) diagnose(err error) {
	fmt.Fprintf(s.Stdio.Stderr(), "%s %v\n", s.Color.Sprintf(ColorBoldRed, "xvsh:"), err)
}

func (s *Shell) record(le *logger.LogEntry) {
	if err := s.Events.Record(le); err != nil {
		log.Printf("xvsh: recording event: %v", err)
	}
}
