package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand  RunCommandReport  `json:"run_command_report"`
	SyntaxError SyntaxErrorReport `json:"syntax_error_report"`
	Failure     FailureReport     `json:"failure_report"`
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		Failure: FailureReport{
			Failures: NewPathCounter("command", "error"),
		},
	}
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Type {
	case EventSessionStart:
		r.Sessions++
	case EventRunCommand:
		r.RunCommand.update(le)
	case EventSyntaxError, EventLineTooLong:
		r.SyntaxError.update(le)
	case EventCommandFailed, EventForkFailed:
		r.Failure.update(le)
	case EventSessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(string(le.Type))
	}
}

type RunCommandReport struct {
	Count int `json:"count"`
	// Name of the first program in the line and its count.
	CommandNames StrCounter `json:"command_names"`
	// Number of lines with at least one pipe.
	Pipelines int `json:"pipelines"`
	// Number of lines run in the background.
	Backgrounded int `json:"backgrounded"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.Count++
	if fields := strings.Fields(le.Command); len(fields) > 0 && fields[0] != "&" {
		r.CommandNames.Increment(fields[0])
	}
	if le.Stages > 1 {
		r.Pipelines++
	}
	if le.Background {
		r.Backgrounded++
	}
}

type SyntaxErrorReport struct {
	Count  int        `json:"count"`
	Errors StrCounter `json:"errors"`
}

func (r *SyntaxErrorReport) update(le *LogEntry) {
	r.Count++
	r.Errors.Increment(le.Error)
}

type FailureReport struct {
	Count    int          `json:"count"`
	Failures *PathCounter `json:"failures"`
}

func (r *FailureReport) update(le *LogEntry) {
	r.Count++
	if r.Failures == nil {
		r.Failures = NewPathCounter("command", "error")
	}
	r.Failures.Increment(le.Command, le.Error)
}

// SessionReport groups the commands of each session.
type SessionReport struct {
	// Map of sessionID -> session
	sessions map[string]*Session
}

type Session struct {
	StartMicros int64    `json:"start_micros"`
	EndMicros   int64    `json:"end_micros,omitempty"`
	LogEntries  int      `json:"log_entries"`
	Commands    []string `json:"commands"`
	Failures    int      `json:"failures"`
}

func (s *Session) Update(le *LogEntry) {
	s.LogEntries++

	switch le.Type {
	case EventSessionStart:
		s.StartMicros = le.TimestampMicros
	case EventSessionEnd:
		s.EndMicros = le.TimestampMicros
	case EventRunCommand:
		s.Commands = append(s.Commands, le.Command)
	case EventCommandFailed, EventForkFailed, EventSyntaxError, EventLineTooLong:
		s.Failures++
	}
}

func (i *SessionReport) init() {
	if i.sessions == nil {
		i.sessions = make(map[string]*Session)
	}
}

// Get returns the session with the given ID, or nil.
func (i *SessionReport) Get(sessionID string) *Session {
	i.init()
	return i.sessions[sessionID]
}

// MarshalJSON implements a custom JSON marshaler.
func (i *SessionReport) MarshalJSON() ([]byte, error) {
	i.init()

	return json.Marshal(i.sessions)
}

func (i *SessionReport) Update(le *LogEntry) {
	i.init()

	if le.SessionID == "" {
		return
	}
	session, ok := i.sessions[le.SessionID]
	if !ok {
		session = &Session{}
		i.sessions[le.SessionID] = session
	}

	session.Update(le)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count returns the number of times key was seen.
func (s *StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Count returns the number of times the tuple was seen.
func (ctr *PathCounter) Count(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
