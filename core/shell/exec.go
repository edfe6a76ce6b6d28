package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/josephlewis42/xvsh/core/vos"
)

// Exit codes following POSIX conventions
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// DefaultPrompt is printed before every line is read.
const DefaultPrompt = "xvsh> "

var (
	// ErrUnknownCommand is returned for a node the executor cannot run.
	ErrUnknownCommand = errors.New("unknown command node")
	// ErrNotFinalized is returned for a leaf whose arguments were never
	// materialized by Finalize.
	ErrNotFinalized = errors.New("command was not finalized")
)

// ExecError reports a program that could not replace the process image.
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("cannot run this command %s: %v", e.Name, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// PipeError reports a failure to allocate a pipe.
type PipeError struct {
	Err error
}

func (e *PipeError) Error() string {
	return fmt.Sprintf("pipe: %v", e.Err)
}

func (e *PipeError) Unwrap() error { return e.Err }

// ForkError reports a failure to create a process.
type ForkError struct {
	Err error
}

func (e *ForkError) Error() string {
	return fmt.Sprintf("fork: %v", e.Err)
}

func (e *ForkError) Unwrap() error { return e.Err }

// Executor realizes a command tree inside the current process. Sub-commands
// that need processes of their own are forked through OS.
type Executor struct {
	OS vos.VOS
	// Stdio holds the standard streams of the current process.
	Stdio vos.VIO
	// Prompt is repeated after a background announcement.
	Prompt string
}

func (e *Executor) stdio() vos.VIO {
	if e.Stdio == nil {
		return vos.NewOSIO()
	}
	return e.Stdio
}

// Run executes cmd. A leaf replaces the process image, so on success Run only
// returns for empty commands or when OS.Exec is not a real image replacement.
func (e *Executor) Run(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case *ExecCmd:
		return e.runExec(cmd)
	case *PipeCmd:
		return e.runPipe(ctx, cmd)
	case *BackCmd:
		fmt.Fprintf(e.stdio().Stderr(), "[pid %d] runs as a background process. \n%s", e.OS.Getpid(), e.Prompt)
		return e.Run(ctx, cmd.Cmd)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (e *Executor) runExec(cmd *ExecCmd) error {
	if len(cmd.Args) != len(cmd.Spans) {
		return ErrNotFinalized
	}
	if len(cmd.Args) == 0 {
		return nil
	}
	if err := e.OS.Exec(cmd.Args, e.OS.Environ()); err != nil {
		return &ExecError{Name: cmd.Args[0], Err: err}
	}
	return nil
}

func (e *Executor) runPipe(ctx context.Context, cmd *PipeCmd) error {
	r, w, err := e.OS.Pipe()
	if err != nil {
		return &PipeError{Err: err}
	}

	stdio := e.stdio()
	left, err := e.OS.Fork(ctx, cmd.Left.String(), &vos.ProcAttr{Files: vos.WithStdout(stdio, w)})
	if err != nil {
		closeAll(r, w)
		return &ForkError{Err: err}
	}

	right, err := e.OS.Fork(ctx, cmd.Right.String(), &vos.ProcAttr{Files: vos.WithStdin(stdio, r)})

	// Nothing flows through this process; the reader only sees end of input
	// once every copy of the write end is closed.
	closeAll(r, w)

	if err != nil {
		_ = left.Wait()
		return &ForkError{Err: err}
	}

	// Exit statuses of pipeline stages are not collected.
	_ = left.Wait()
	_ = right.Wait()
	return nil
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

// Main parses script and executes it in the current process. It returns the
// status the process should exit with, printing a diagnostic on failure.
func Main(ctx context.Context, virtualOS vos.VOS, stdio vos.VIO, prompt, script string) int {
	cmd, err := Parse(script)
	if err == nil {
		ex := &Executor{OS: virtualOS, Stdio: stdio, Prompt: prompt}
		err = ex.Run(ctx, cmd)
	}
	return ExitStatus(stdio.Stderr(), err)
}

// ExitStatus converts the result of a run into a process exit status.
func ExitStatus(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(w, "xvsh: %v\n", err)
	return ExitFailure
}
