package vos

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ChildCommand is the hidden sub-command a forked shell is started with.
const ChildCommand = "__exec"

// HostOS runs commands as real processes on the host.
//
// Go cannot fork a running program, so Fork re-executes the shell binary with
// the script to run; the new process parses it again and executes it.
type HostOS struct {
	// Self is the path of the shell binary.
	Self string
	// ChildArgs are passed to Self before the script.
	ChildArgs []string
	// ChildEnv is appended to the environment of every forked shell.
	ChildEnv []string
}

var _ VOS = (*HostOS)(nil)

// NewHostOS creates a HostOS that re-executes the running binary.
func NewHostOS() (*HostOS, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating shell binary: %w", err)
	}
	return &HostOS{
		Self:      self,
		ChildArgs: []string{ChildCommand, "--"},
	}, nil
}

// Getpid implements VOS.Getpid.
func (h *HostOS) Getpid() int {
	return os.Getpid()
}

// Environ implements VOS.Environ.
func (h *HostOS) Environ() []string {
	return os.Environ()
}

// Pipe implements VOS.Pipe. Both descriptors are close-on-exec, so a child
// only ever holds the end that was installed as one of its standard streams.
func (h *HostOS) Pipe() (*os.File, *os.File, error) {
	return os.Pipe()
}

// Fork implements VOS.Fork.
func (h *HostOS) Fork(ctx context.Context, script string, attr *ProcAttr) (Process, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}

	args := append(append([]string{}, h.ChildArgs...), script)
	cmd := exec.CommandContext(ctx, h.Self, args...)

	env := attr.Env
	if env == nil {
		env = h.Environ()
	}
	cmd.Env = MergeEnv(env, h.ChildEnv...)

	files := attr.Files
	if files == nil {
		files = NewOSIO()
	}
	cmd.Stdin = files.Stdin()
	cmd.Stdout = files.Stdout()
	cmd.Stderr = files.Stderr()

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &hostProcess{cmd: cmd}, nil
}

// Exec implements VOS.Exec.
func (h *HostOS) Exec(argv []string, env []string) error {
	if len(argv) == 0 {
		return ErrNotFound
	}
	path, err := LookPath(env, argv[0])
	if err != nil {
		return err
	}
	return unix.Exec(path, argv, env)
}

type hostProcess struct {
	cmd *exec.Cmd
}

func (p *hostProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *hostProcess) Wait() error {
	return p.cmd.Wait()
}
