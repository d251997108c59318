package main

// Notes:
// - Shared fixtures for the CLI tests. Nothing here is under test.
// - syncBuffer guards output written by the watch loop while the test polls.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-incidentmd"
)

// sampleNotes converts to a report titled "Customer reported 502 errors".
const sampleNotes = `ISSUE
Customer reported 502 errors. The proxy dropped requests.

IMPACT
Checkout was unavailable for 20 minutes.

RESOLUTION
Opened port 443 on the firewall.

LESSONS LEARNED
Firewall changes need review.
`

var fixedNow = func() time.Time { return time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC) }

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv returns an environment with captured output, a pinned clock and
// no INCIDENTMD_CONFIG.
func testEnv(stdin string) (*Environment, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:    fixedNow,
		Stdin:  strings.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(string) string { return "" },
	}
	return env, stdout, stderr
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// mockConverter returns a fixed result or error and records its inputs.
type mockConverter struct {
	mu     sync.Mutex
	result *incidentmd.Result
	err    error
	inputs []incidentmd.Input
}

func (m *mockConverter) Convert(_ context.Context, in incidentmd.Input) (*incidentmd.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockConverter) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}
