package shell

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exec(args ...string) *ExecCmd {
	return &ExecCmd{Args: args}
}

// shape strips spans so trees can be compared by their words alone.
func shape(cmd Command) Command {
	switch cmd := cmd.(type) {
	case *ExecCmd:
		if len(cmd.Args) == 0 {
			return &ExecCmd{}
		}
		return &ExecCmd{Args: cmd.Args}
	case *PipeCmd:
		return &PipeCmd{Left: shape(cmd.Left), Right: shape(cmd.Right)}
	case *BackCmd:
		return &BackCmd{Cmd: shape(cmd.Cmd)}
	default:
		return cmd
	}
}

func TestParse(t *testing.T) {
	cases := map[string]struct {
		line string
		want Command
	}{
		"simple":            {"ls", exec("ls")},
		"arguments":         {"ls -l /tmp", exec("ls", "-l", "/tmp")},
		"pipeline":          {"echo a | wc", &PipeCmd{Left: exec("echo", "a"), Right: exec("wc")}},
		"background":        {"sleep 5 &", &BackCmd{Cmd: exec("sleep", "5")}},
		"right-associative": {"a | b | c", &PipeCmd{Left: exec("a"), Right: &PipeCmd{Left: exec("b"), Right: exec("c")}}},
		"double-background": {"a & &", &BackCmd{Cmd: &BackCmd{Cmd: exec("a")}}},
		"no-spaces":         {"echo a|wc&", &BackCmd{Cmd: &PipeCmd{Left: exec("echo", "a"), Right: exec("wc")}}},
		"surrounding-space": {" \t ls \r\n", exec("ls")},
		"lone-background":   {"&", &BackCmd{Cmd: exec()}},
		"max-args":          {"a 1 2 3 4 5 6 7 8 9", exec("a", "1", "2", "3", "4", "5", "6", "7", "8", "9")},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := Parse(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, shape(got))
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, line := range []string{"", "   ", "\t\r\n"} {
		got, err := Parse(line)
		require.NoError(t, err)

		exec, ok := got.(*ExecCmd)
		require.True(t, ok, "got %T", got)
		assert.Empty(t, exec.Args)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		line    string
		wantErr error
		offset  int
	}{
		"dangling-pipe":  {"ls |", ErrMissingCommand, 3},
		"leading-pipe":   {"| wc", ErrMissingCommand, 0},
		"double-pipe":    {"a | | b", ErrMissingCommand, 4},
		"leftover":       {"a & b", ErrLeftover, 4},
		"pipe-after-bg":  {"a & | b", ErrLeftover, 4},
		"nul-byte":       {"ls\x00rm", ErrLeftover, 2},
		"too-many-args":  {"a 1 2 3 4 5 6 7 8 9 10", ErrTooManyArgs, 20},
		"too-many-right": {"ls | a 1 2 3 4 5 6 7 8 9 10", ErrTooManyArgs, 25},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := Parse(tc.line)
			assert.Nil(t, got)
			require.ErrorIs(t, err, tc.wantErr)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tc.offset, syntaxErr.Offset)
			assert.Contains(t, err.Error(), "syntax error")
		})
	}
}

func TestParseStageCount(t *testing.T) {
	for n := 1; n <= 8; n++ {
		var stages []string
		for i := 0; i < n; i++ {
			stages = append(stages, fmt.Sprintf("prog%d arg%d", i, i))
		}
		line := strings.Join(stages, " | ")

		got, err := Parse(line)
		require.NoError(t, err, line)
		assert.Equal(t, n, Leaves(got), line)
		assert.Equal(t, n-1, Pipes(got), line)
	}
}

func TestCommandStringRoundTrip(t *testing.T) {
	lines := []string{
		"ls",
		"",
		"echo a|wc",
		"a | b | c &",
		"sleep 5 & &",
		"&",
		"  cat  f |grep x|  wc -l  ",
	}

	for _, line := range lines {
		first, err := Parse(line)
		require.NoError(t, err, line)

		second, err := Parse(first.String())
		require.NoError(t, err, first.String())

		assert.Equal(t, shape(first), shape(second), line)
		assert.Equal(t, first.String(), second.String())
	}
}

func TestDump(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	cases := map[string]string{
		"simple":              "ls",
		"empty":               "",
		"pipeline":            "echo a | wc",
		"right-associative":   "a | b | c",
		"background":          "sleep 5 &",
		"double-background":   "sleep 5 & &",
		"background-pipeline": "cat f | grep x | wc -l &",
		"no-spaces":           "echo a|wc&",
	}

	for tn, line := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd, err := Parse(line)
			require.NoError(t, err)

			buf := &bytes.Buffer{}
			Dump(buf, cmd)
			g.Assert(t, tn, buf.Bytes())
		})
	}
}
