package logger

// EventType names the kind of a LogEntry.
type EventType string

const (
	// EventSessionStart is logged once when a shell starts reading lines.
	EventSessionStart EventType = "session_start"
	// EventSessionEnd is logged when the shell stops reading lines.
	EventSessionEnd EventType = "session_end"
	// EventRunCommand is logged for every line handed to a child process.
	EventRunCommand EventType = "run_command"
	// EventCommandFailed is logged when a line's process exits unsuccessfully.
	EventCommandFailed EventType = "command_failed"
	// EventSyntaxError is logged for lines that don't parse.
	EventSyntaxError EventType = "syntax_error"
	// EventLineTooLong is logged for lines over the configured limit.
	EventLineTooLong EventType = "line_too_long"
	// EventForkFailed is logged when no process could be created for a line.
	EventForkFailed EventType = "fork_failed"
)

// LogEntry is a single recorded event.
type LogEntry struct {
	TimestampMicros int64     `json:"timestamp_micros"`
	SessionID       string    `json:"session_id,omitempty"`
	Type            EventType `json:"type"`

	// Command is the canonical form of the line, or the raw line if it
	// didn't parse.
	Command    string `json:"command,omitempty"`
	Error      string `json:"error,omitempty"`
	Pid        int    `json:"pid,omitempty"`
	Stages     int    `json:"stages,omitempty"`
	Background bool   `json:"background,omitempty"`
}
