// Package vostest provides an in-process VOS for tests.
package vostest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/josephlewis42/xvsh/core/vos"
	"golang.org/x/sys/unix"
)

// Program is a fake executable. It returns the exit status of the process.
type Program func(args []string, stdio vos.VIO) int

// ChildFunc runs a forked script inside the given process and returns its
// exit status. Tests pass shell.Main (or a wrapper of it).
type ChildFunc func(ctx context.Context, proc *OS, script string) int

// Buffer is a bytes.Buffer that is safe to share between fake processes.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Shared is the state visible to every fake process.
type Shared struct {
	Programs map[string]Program
	Child    ChildFunc

	Stdout *Buffer
	Stderr *Buffer

	mu      sync.Mutex
	lastPID int
	forks   []string
	execs   [][]string
}

// Forks returns the scripts passed to Fork, in order.
func (s *Shared) Forks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.forks...)
}

// Execs returns the argument vectors of every successful Exec.
func (s *Shared) Execs() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.execs...)
}

func (s *Shared) nextPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPID++
	return s.lastPID
}

// OS is a single fake process.
type OS struct {
	*Shared

	PID   int
	Env   []string
	Files vos.VIO

	// closers are the descriptors owned by this process.
	closers []io.Closer
}

var _ vos.VOS = (*OS)(nil)

// NewDeterministicOS creates the first process of a fake system. Its stdin is
// empty and its output goes to the shared buffers.
func NewDeterministicOS(programs map[string]Program, child ChildFunc) *OS {
	shared := &Shared{
		Programs: programs,
		Child:    child,
		Stdout:   &Buffer{},
		Stderr:   &Buffer{},
	}
	return &OS{
		Shared: shared,
		PID:    shared.nextPID(),
		Env:    []string{"PATH=/bin"},
		Files:  vos.NewVIOAdapter(nil, shared.Stdout, shared.Stderr),
	}
}

// Getpid implements vos.VOS.
func (o *OS) Getpid() int {
	return o.PID
}

// Environ implements vos.VOS.
func (o *OS) Environ() []string {
	return append([]string(nil), o.Env...)
}

// Pipe implements vos.VOS with a real pipe so end-of-file behaves as it does
// between processes.
func (o *OS) Pipe() (*os.File, *os.File, error) {
	return os.Pipe()
}

// Fork implements vos.VOS by running Child on a goroutine. Files handed to the
// child are duplicated, so closing them in the parent doesn't affect it.
func (o *OS) Fork(ctx context.Context, script string, attr *vos.ProcAttr) (vos.Process, error) {
	if o.Child == nil {
		return nil, fmt.Errorf("vostest: no child function")
	}
	if attr == nil {
		attr = &vos.ProcAttr{}
	}
	files := attr.Files
	if files == nil {
		files = o.Files
	}
	env := attr.Env
	if env == nil {
		env = o.Environ()
	}

	child := &OS{
		Shared: o.Shared,
		PID:    o.nextPID(),
		Env:    env,
	}
	stdin, err := child.inherit(files.Stdin())
	if err != nil {
		return nil, err
	}
	stdout, err := child.inherit(files.Stdout())
	if err != nil {
		child.exit()
		return nil, err
	}
	stderr, err := child.inherit(files.Stderr())
	if err != nil {
		child.exit()
		return nil, err
	}
	child.Files = vos.NewVIOAdapter(stdin.(io.Reader), stdout.(io.Writer), stderr.(io.Writer))

	o.mu.Lock()
	o.forks = append(o.forks, script)
	o.mu.Unlock()

	proc := &process{pid: child.PID, done: make(chan struct{})}
	go func() {
		defer close(proc.done)
		proc.status = o.Child(ctx, child, script)
		child.exit()
	}()
	return proc, nil
}

// inherit gives the child its own copy of stream, duplicating real files.
func (o *OS) inherit(stream interface{}) (interface{}, error) {
	f, ok := stream.(*os.File)
	if !ok {
		return stream, nil
	}
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	dup := os.NewFile(uintptr(fd), f.Name())
	o.closers = append(o.closers, dup)
	return dup, nil
}

// exit releases the descriptors owned by the process.
func (o *OS) exit() {
	for _, c := range o.closers {
		_ = c.Close()
	}
	o.closers = nil
}

// Exec implements vos.VOS. The program runs to completion on the calling
// goroutine; a nil return stands for the replaced image having exited.
func (o *OS) Exec(argv []string, env []string) error {
	if len(argv) == 0 {
		return vos.ErrNotFound
	}
	prog, ok := o.Programs[argv[0]]
	if !ok {
		return fmt.Errorf("%s: %w", argv[0], vos.ErrNotFound)
	}

	o.mu.Lock()
	o.execs = append(o.execs, append([]string(nil), argv...))
	o.mu.Unlock()

	prog(argv, o.Files)
	return nil
}

type process struct {
	pid    int
	done   chan struct{}
	status int
}

func (p *process) Pid() int {
	return p.pid
}

func (p *process) Wait() error {
	<-p.done
	if p.status != 0 {
		return fmt.Errorf("exit status %d", p.status)
	}
	return nil
}
