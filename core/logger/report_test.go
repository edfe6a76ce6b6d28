package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordSession(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	session := NewJsonLinesLogRecorder(buf).NewSession()
	for _, le := range []*LogEntry{
		{Type: EventSessionStart},
		{Type: EventRunCommand, Command: "ls -l", Stages: 1},
		{Type: EventRunCommand, Command: "cat f | wc", Stages: 2},
		{Type: EventRunCommand, Command: "sleep 5 &", Stages: 1, Background: true},
		{Type: EventCommandFailed, Command: "ls -l", Error: "exit status 2"},
		{Type: EventSyntaxError, Command: "ls |", Error: "missing command"},
		{Type: EventLineTooLong, Error: "line too long"},
		{Type: EventSessionEnd},
	} {
		require.NoError(t, session.Record(le))
	}
	return buf
}

func TestReadJSONLinesLog(t *testing.T) {
	var types []EventType
	err := ReadJSONLinesLog(recordSession(t), func(le *LogEntry) {
		types = append(types, le.Type)
	})

	require.NoError(t, err)
	assert.Len(t, types, 8)
	assert.Equal(t, EventSessionStart, types[0])
	assert.Equal(t, EventSessionEnd, types[7])
}

func TestReadJSONLinesLogInvalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader("{\"type\":\"run_command\"}\n{not json"), func(*LogEntry) {})
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	report := NewReport()
	require.NoError(t, ReadJSONLinesLog(recordSession(t), report.Update))
	report.Update(&LogEntry{Type: "mystery"})

	assert.Equal(t, 9, report.LogEntries)
	assert.Equal(t, 1, report.Sessions)
	assert.Equal(t, 1, report.InvalidEntries.Count("mystery"))

	assert.Equal(t, 3, report.RunCommand.Count)
	assert.Equal(t, 1, report.RunCommand.CommandNames.Count("ls"))
	assert.Equal(t, 1, report.RunCommand.CommandNames.Count("cat"))
	assert.Equal(t, 1, report.RunCommand.Pipelines)
	assert.Equal(t, 1, report.RunCommand.Backgrounded)

	assert.Equal(t, 2, report.SyntaxError.Count)
	assert.Equal(t, 1, report.Failure.Count)
	assert.Equal(t, 1, report.Failure.Failures.Count("ls -l", "exit status 2"))

	_, err := json.Marshal(report)
	assert.NoError(t, err)
}

func TestSessionReport(t *testing.T) {
	report := &SessionReport{}
	require.NoError(t, ReadJSONLinesLog(recordSession(t), report.Update))
	report.Update(&LogEntry{Type: EventRunCommand, Command: "ignored"})

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var sessions map[string]*Session
	require.NoError(t, json.Unmarshal(raw, &sessions))
	require.Len(t, sessions, 1)
	for id, session := range sessions {
		assert.Equal(t, session, report.Get(id))
		assert.Equal(t, []string{"ls -l", "cat f | wc", "sleep 5 &"}, session.Commands)
		assert.Equal(t, 3, session.Failures)
		assert.Equal(t, 8, session.LogEntries)
	}
}

func TestPathCounterMarshal(t *testing.T) {
	ctr := NewPathCounter("command", "error")
	ctr.Increment("a", "x")
	ctr.Increment("b", "y")
	ctr.Increment("b", "y")

	raw, err := json.Marshal(ctr)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"count":2,"event":{"command":"b","error":"y"}},{"count":1,"event":{"command":"a","error":"x"}}]`,
		string(raw))

	assert.Panics(t, func() { ctr.Increment("only-one") })
}
