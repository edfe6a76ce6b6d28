package shell

// Finalize copies every word span of cmd out of buf so each argument becomes
// an independent string. Parse calls it once; calling it again on the same
// buffer yields the same arguments.
func Finalize(buf []byte, cmd Command) {
	switch cmd := cmd.(type) {
	case *ExecCmd:
		args := make([]string, len(cmd.Spans))
		for i, span := range cmd.Spans {
			args[i] = string(buf[span.Start:span.End])
		}
		cmd.Args = args
	case *PipeCmd:
		Finalize(buf, cmd.Left)
		Finalize(buf, cmd.Right)
	case *BackCmd:
		Finalize(buf, cmd.Cmd)
	}
}
