// Package vos abstracts the process primitives the shell is built from:
// creating processes, wiring pipes and replacing the process image.
package vos

import (
	"context"
	"io"
	"os"
)

// VIO holds the standard streams of a process.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// Process is a started child process.
type Process interface {
	// Pid returns the process ID of the child.
	Pid() int
	// Wait blocks until the child terminates. A non-zero exit is reported as
	// an error.
	Wait() error
}

// ProcAttr holds the attributes for a new process.
type ProcAttr struct {
	// If Env is non-nil, it gives the environment variables for the
	// new process in the form returned by Environ.
	// If it is nil, the result of Environ will be used.
	Env []string

	// Files specifies the open files inherited by the new process. If nil,
	// the child inherits the standard streams of its parent.
	Files VIO
}

// VOS provides the process model of the shell.
type VOS interface {
	// Getpid returns the process ID of the caller.
	Getpid() int

	// Environ returns a copy of the environment in "key=value" form.
	Environ() []string

	// Pipe returns a connected pair of files: reads from r return bytes
	// written to w.
	Pipe() (r *os.File, w *os.File, err error)

	// Fork starts a copy of the shell that executes script and exits.
	Fork(ctx context.Context, script string, attr *ProcAttr) (Process, error)

	// Exec replaces the current process image with the program named by
	// argv[0]. It only returns if the replacement failed.
	Exec(argv []string, env []string) error
}
