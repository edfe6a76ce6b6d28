package shell

import (
	"fmt"
	"io"
	"strings"
)

// MaxArgs is the maximum number of words a single command may carry.
const MaxArgs = 10

// Span is a half-open [Start, End) byte range into the parsed line.
type Span struct {
	Start int
	End   int
}

// Command is a node of a parsed command line. The set of implementations is
// closed: *ExecCmd, *PipeCmd and *BackCmd.
type Command interface {
	fmt.Stringer

	command()
}

// ExecCmd is a leaf: a program name followed by its arguments.
type ExecCmd struct {
	// Spans locate each word in the line the command was parsed from.
	Spans []Span
	// Args holds the words themselves once the command has been finalized.
	// Args[0] is the program name.
	Args []string
}

// PipeCmd connects the standard output of Left to the standard input of Right.
type PipeCmd struct {
	Left  Command
	Right Command
}

// BackCmd announces Cmd as a background process before running it.
type BackCmd struct {
	Cmd Command
}

func (*ExecCmd) command() {}
func (*PipeCmd) command() {}
func (*BackCmd) command() {}

var (
	_ Command = (*ExecCmd)(nil)
	_ Command = (*PipeCmd)(nil)
	_ Command = (*BackCmd)(nil)
)

// String renders the command in a form Parse turns back into the same tree.
func (c *ExecCmd) String() string {
	return strings.Join(c.Args, " ")
}

func (c *PipeCmd) String() string {
	return c.Left.String() + " | " + c.Right.String()
}

func (c *BackCmd) String() string {
	inner := c.Cmd.String()
	if inner == "" {
		return "&"
	}
	return inner + " &"
}

// Leaves counts the ExecCmd nodes in the tree.
func Leaves(cmd Command) int {
	switch cmd := cmd.(type) {
	case *ExecCmd:
		return 1
	case *PipeCmd:
		return Leaves(cmd.Left) + Leaves(cmd.Right)
	case *BackCmd:
		return Leaves(cmd.Cmd)
	default:
		return 0
	}
}

// Pipes counts the PipeCmd nodes in the tree.
func Pipes(cmd Command) int {
	switch cmd := cmd.(type) {
	case *PipeCmd:
		return 1 + Pipes(cmd.Left) + Pipes(cmd.Right)
	case *BackCmd:
		return Pipes(cmd.Cmd)
	default:
		return 0
	}
}

// Dump writes an indented description of the tree, one node per line.
func Dump(w io.Writer, cmd Command) {
	dump(w, cmd, 0)
}

func dump(w io.Writer, cmd Command, depth int) {
	indent := strings.Repeat("  ", depth)
	switch cmd := cmd.(type) {
	case *ExecCmd:
		fmt.Fprintf(w, "%sexec %q\n", indent, cmd.Args)
	case *PipeCmd:
		fmt.Fprintf(w, "%spipe\n", indent)
		dump(w, cmd.Left, depth+1)
		dump(w, cmd.Right, depth+1)
	case *BackCmd:
		fmt.Fprintf(w, "%sback\n", indent)
		dump(w, cmd.Cmd, depth+1)
	default:
		fmt.Fprintf(w, "%s%T\n", indent, cmd)
	}
}
