package commands

import (
	"sort"
)

// ExitPrefix starts every line that terminates the shell.
const ExitPrefix = "exit"

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Exit quits the shell. It never fails; flags only add output.
func Exit(s *Shell, args []string) int {
	s.Quit = true

	cmd := &SimpleCommand{
		Use:       "exit",
		Short:     "Exit the shell.",
		NeverBail: true,
	}
	return cmd.Run(args, s.Stdio.Stderr(), s.Stdio.Stderr(), func() int {
		return 0
	})
}

// ListBuiltins returns the sorted names of the registered builtins.
func ListBuiltins() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
