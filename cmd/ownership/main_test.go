package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"ownership/internal/diagfmt"
	"ownership/internal/trace"
)

const wantTranscript = "\n\nSCOPE 1\n" +
	"x is 2\n" +
	"y is 2\n" +
	"I can still use x: in fact, x is 2\n" +
	"Now I have bound x to 3. y is 2, so the copy I made with let y = x is 'deep'\n" +
	"\n\nSCOPE 2\n" +
	"s is hello \n" +
	"t is hello \n" +
	"\n\nSCOPE 3\n" +
	"x before calling print_incremented_int is 2\n" +
	"print_incremented_int:argument incremented by one is: 3\n" +
	"x after calling print_icremented_int is 2\n" +
	"s is hello \n" +
	"print_len_with_ownership:length of string hello : 6\n" +
	"take_and_return_ownership_with_mut:length of string hello : 6\n" +
	"take_and_return_ownership_with_mut:length of hello world! after adding 'world!' to it: 12\n" +
	"take_and_return_ownership_with_mut:length of string hello : 6\n" +
	"take_and_return_ownership_with_mut:length of hello world! after adding 'world!' to it: 12\n" +
	"This is the value of new_s: hello world!\n" +
	"\n\nSCOPE 4\n" +
	"print_len_with_borrowing:the string Ziopera has length 7\n" +
	"another_str after calling append_with_borrowing on it: ziopera fra!\n"

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootPrintsTranscript(t *testing.T) {
	for _, args := range [][]string{nil, {"run"}} {
		stdout, stderr, err := execute(t, args...)
		require.NoError(t, err)
		if diff := cmp.Diff(wantTranscript, stdout); diff != "" {
			t.Fatalf("args %v: transcript mismatch (-want +got):\n%s", args, diff)
		}
		require.Empty(t, stderr)
	}
}

func TestRunSelectsLessons(t *testing.T) {
	stdout, _, err := execute(t, "run", "--lesson", "2")
	require.NoError(t, err)
	require.Equal(t, "\n\nSCOPE 2\ns is hello \nt is hello \n", stdout)
}

func TestRunRejectsUnknownLesson(t *testing.T) {
	_, _, err := execute(t, "--lesson", "9")
	require.ErrorContains(t, err, "unknown lesson 9")
}

func TestRunTimings(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "--timings")
	require.NoError(t, err)
	require.Equal(t, wantTranscript, stdout)
	require.True(t, strings.HasPrefix(stderr, "timings:\n"), stderr)
	require.Contains(t, stderr, "SCOPE 4")
	require.Contains(t, stderr, "total")
}

func TestRunTraceToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "--lesson", "1", "--trace", "phase")
	require.NoError(t, err)
	require.Contains(t, stdout, "SCOPE 1")
	require.Contains(t, stderr, "lessons")
	require.Contains(t, stderr, "SCOPE 1")
	require.NotContains(t, stderr, "copy", "phase level must not include binding events")
}

func TestRunTraceNDJSON(t *testing.T) {
	_, stderr, err := execute(t, "run", "--lesson", "2", "--trace", "debug", "--trace-format", "ndjson")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
	}
}

func TestRunEventsOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.msgpack")
	_, stderr, err := execute(t, "run", "--lesson", "2", "--events-out", path)
	require.NoError(t, err)
	require.Empty(t, stderr)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	payload, err := trace.ReadMsgpack(f)
	require.NoError(t, err)

	var moves int
	for _, rec := range payload.Events {
		if rec.Name == "move" {
			moves++
			require.Equal(t, "s", rec.Detail)
		}
	}
	require.Equal(t, 1, moves)
}

func TestRunEventsOutNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	_, _, err := execute(t, "run", "--lesson", "2", "--events-out", path, "--events-format", "ndjson")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)

	var moves int
	for _, line := range lines {
		var rec struct {
			Name   string `json:"name"`
			Detail string `json:"detail"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		if rec.Name == "move" {
			moves++
			require.Equal(t, "s", rec.Detail)
		}
	}
	require.Equal(t, 1, moves)
}

func TestRunBadEventsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.out")
	stdout, _, err := execute(t, "run", "--events-out", path, "--events-format", "yaml")
	require.ErrorContains(t, err, "invalid --events-format")
	require.Empty(t, stdout, "format is checked before any lesson runs")
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestRunBadTraceLevel(t *testing.T) {
	_, _, err := execute(t, "--trace", "loud")
	require.ErrorContains(t, err, "invalid trace level")
}

func TestExplainPretty(t *testing.T) {
	stdout, _, err := execute(t, "explain", "--color", "off")
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(stdout, "OWN3101"))
	require.Contains(t, stdout, "ERROR OWN3104: cannot assign twice to immutable binding 'new_s'")
	require.Contains(t, stdout, "OWN3105")
	require.Contains(t, stdout, "= note: SCOPE 2#2 (s): value moved into 't' here")
	require.True(t, strings.HasSuffix(stdout, "5 programs rejected as expected\n"))
	require.NotContains(t, stdout, "\x1b[")
}

func TestExplainPrettyFooterCountsShown(t *testing.T) {
	stdout, _, err := execute(t, "explain", "--color", "off", "--max", "2")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(stdout, "ERROR OWN"))
	require.Contains(t, stdout, "... 3 more not shown\n")
	require.True(t, strings.HasSuffix(stdout, "5 programs rejected as expected (2 shown)\n"), stdout)
}

func TestExplainKeepsLessonOrder(t *testing.T) {
	stdout, _, err := execute(t, "explain", "--format", "short")
	require.NoError(t, err)

	var codes []string
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		if fields := strings.Fields(line); fields[0] == "error" {
			codes = append(codes, fields[1]+" "+fields[2]+" "+fields[3])
		}
	}
	want := []string{
		"OWN3101 SCOPE 2#4",
		"OWN3101 SCOPE 3#3",
		"OWN3101 SCOPE 3#3",
		"OWN3104 SCOPE 3#3",
		"OWN3105 SCOPE 4#2",
	}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Fatalf("explain order mismatch (-want +got):\n%s", diff)
	}
}

func TestColorAutoFollowsCommandOutput(t *testing.T) {
	stdout, _, err := execute(t, "explain", "--color", "auto")
	require.NoError(t, err)
	require.NotContains(t, stdout, "\x1b[")

	require.False(t, writerIsTerminal(&bytes.Buffer{}))
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	require.False(t, writerIsTerminal(f))
}

func TestExplainJSON(t *testing.T) {
	stdout, _, err := execute(t, "explain", "--format", "json", "--max", "2")
	require.NoError(t, err)

	var out diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Equal(t, 2, out.Count)
	require.Equal(t, "OWN3101", out.Diagnostics[0].Code)
	require.Equal(t, "SCOPE 2", out.Diagnostics[0].Site.Block)
}

func TestExplainShort(t *testing.T) {
	stdout, _, err := execute(t, "explain", "--format", "short")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Equal(t, "error OWN3101 SCOPE 2#4 (s) use of moved value 's'", lines[0])
	require.Equal(t, "note OWN3101 SCOPE 2#2 (s) value moved into 't' here", lines[1])
}

func TestExplainUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "explain", "--format", "xml")
	require.ErrorContains(t, err, "unknown format")
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json", "--full")
	require.NoError(t, err)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Equal(t, "ownership", payload.Tool)
	require.NotEmpty(t, payload.Version)
	require.Equal(t, "unknown", payload.GitCommit)
	require.Equal(t, "unknown", payload.BuildDate)
}

func TestVersionPretty(t *testing.T) {
	stdout, _, err := execute(t, "version", "--color", "off")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "ownership "), stdout)
	require.Contains(t, stdout, "set --hash, --date, or --full")
}

func TestConfigFileSetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ownership.toml")
	require.NoError(t, os.WriteFile(path, []byte("[run]\nlessons = [2]\n\n[explain]\nformat = \"short\"\n"), 0o600))

	stdout, _, err := execute(t, "--config", path)
	require.NoError(t, err)
	require.Equal(t, "\n\nSCOPE 2\ns is hello \nt is hello \n", stdout)

	stdout, _, err = execute(t, "--config", path, "run", "--lesson", "4")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "\n\nSCOPE 4\n"), "flags win over the config file")

	stdout, _, err = execute(t, "--config", path, "explain")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "error OWN3101"), stdout)
}

func TestConfigWarningsGoToStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ownership.toml")
	require.NoError(t, os.WriteFile(path, []byte("[run]\nlesons = [2]\n"), 0o600))

	stdout, stderr, err := execute(t, "--config", path)
	require.NoError(t, err)
	require.Equal(t, wantTranscript, stdout)
	require.Contains(t, stderr, "CFG5002")
	require.Contains(t, stderr, "run.lesons")
}

func TestConfigInvalidFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ownership.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\ncolor = \"purple\"\n"), 0o600))

	_, stderr, err := execute(t, "--config", path)
	require.Error(t, err)
	require.Contains(t, stderr, "CFG5003")
}
