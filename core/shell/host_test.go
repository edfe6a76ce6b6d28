package shell_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/josephlewis42/xvsh/core/shell"
	"github.com/josephlewis42/xvsh/core/vos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperEnv = "XVSH_WANT_HELPER_PROCESS"

// TestMain doubles as the shell binary: with helperEnv set the test binary
// runs the last argument as a script and exits.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) != "1" {
		os.Exit(m.Run())
	}

	self, err := os.Executable()
	if err != nil {
		os.Exit(shell.ExitFailure)
	}
	host := &vos.HostOS{
		Self:      self,
		ChildArgs: []string{"helper"},
		ChildEnv:  []string{helperEnv + "=1"},
	}
	script := os.Args[len(os.Args)-1]
	os.Exit(shell.Main(context.Background(), host, vos.NewOSIO(), shell.DefaultPrompt, script))
}

func runHelper(t *testing.T, script string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := exec.Command(os.Args[0], "helper", script)
	cmd.Env = append(os.Environ(), helperEnv+"=1")
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.Stdout = outBuf
	cmd.Stderr = errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func requirePrograms(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not installed", name)
		}
	}
}

func TestHostPipeline(t *testing.T) {
	requirePrograms(t, "echo", "tr")

	stdout, stderr, err := runHelper(t, "echo hello | tr a-z A-Z")
	require.NoError(t, err, stderr)
	assert.Equal(t, "HELLO\n", stdout)
}

func TestHostThreeStagePipeline(t *testing.T) {
	requirePrograms(t, "echo", "tr")

	stdout, stderr, err := runHelper(t, "echo a b c | tr a-z A-Z | tr -d B")
	require.NoError(t, err, stderr)
	assert.Equal(t, "A  C\n", stdout)
}

func TestHostNotFound(t *testing.T) {
	_, stderr, err := runHelper(t, "xvsh-no-such-program")

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shell.ExitFailure, exitErr.ExitCode())
	assert.Contains(t, stderr, "cannot run this command xvsh-no-such-program")
}

func TestHostBackground(t *testing.T) {
	requirePrograms(t, "echo")

	stdout, stderr, err := runHelper(t, "echo hi &")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", stdout)
	assert.Contains(t, stderr, "runs as a background process.")
}

func TestHostSyntaxError(t *testing.T) {
	_, stderr, err := runHelper(t, "echo |")

	require.Error(t, err)
	assert.Contains(t, stderr, "xvsh: syntax error")
}
