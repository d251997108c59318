package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     convertFlags
		wantArgs []string
	}{
		{
			name:     "defaults",
			args:     []string{"notes.txt"},
			want:     convertFlags{},
			wantArgs: []string{"notes.txt"},
		},
		{
			name: "all flags",
			args: []string{
				"-c", "team", "-q", "-v", "-w", "4", "--preamble", "discard",
				"--title", "T", "--category", "C", "--severity", "SEV1", "--meta", "m.yaml",
				"-o", "out", "--slug", "--html", "--pretty", "notes",
			},
			want: convertFlags{
				common:   commonFlags{config: "team", quiet: true, verbose: true},
				workers:  4,
				preamble: "discard",
				document: documentFlags{title: "T", category: "C", severity: "SEV1", meta: "m.yaml"},
				out:      outputFlags{output: "out", slug: true, html: true, pretty: true},
			},
			wantArgs: []string{"notes"},
		},
		{
			name:     "stdin dash is positional",
			args:     []string{"-", "--severity", "SEV2"},
			want:     convertFlags{document: documentFlags{severity: "SEV2"}},
			wantArgs: []string{"-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, args, err := parseConvertFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("parseConvertFlags() error: %v", err)
			}
			opts := cmp.AllowUnexported(convertFlags{}, commonFlags{}, documentFlags{}, outputFlags{})
			if diff := cmp.Diff(tt.want, *got, opts); diff != "" {
				t.Errorf("flags mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWatchFlags(t *testing.T) {
	t.Parallel()

	got, args, err := parseWatchFlags([]string{"notes", "--debounce", "2s", "--preamble", "issue"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseWatchFlags() error: %v", err)
	}
	if got.debounce != 2*time.Second {
		t.Errorf("debounce = %v, want 2s", got.debounce)
	}
	if got.preamble != "issue" {
		t.Errorf("preamble = %q, want issue", got.preamble)
	}
	if diff := cmp.Diff([]string{"notes"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	got, _, err = parseWatchFlags(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if got.debounce != defaultDebounce {
		t.Errorf("default debounce = %v, want %v", got.debounce, defaultDebounce)
	}
}

func TestParseConvertFlags_HelpPrintsUsage(t *testing.T) {
	t.Parallel()

	var usage bytes.Buffer
	_, _, err := parseConvertFlags([]string{"-h"}, &usage)
	if err == nil {
		t.Fatal("parseConvertFlags(-h) error = nil, want ErrHelp")
	}
	if !strings.Contains(usage.String(), "incidentmd convert <input>") {
		t.Errorf("usage = %q", usage.String())
	}
}

func TestEnvironmentConfigName(t *testing.T) {
	t.Parallel()

	env := &Environment{Getenv: func(k string) string {
		if k == envConfigName {
			return "team"
		}
		return ""
	}}
	if got := env.configName("flag"); got != "flag" {
		t.Errorf("configName(flag) = %q, want flag", got)
	}
	if got := env.configName(""); got != "team" {
		t.Errorf("configName(\"\") = %q, want team", got)
	}
	if got := (&Environment{}).configName(""); got != "" {
		t.Errorf("configName without Getenv = %q, want empty", got)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		quiet     bool
		wantDebug bool
		wantWarn  bool
	}{
		{"default", false, false, false, true},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(&buf, tt.verbose, tt.quiet)
			logger.Debug("debug entry")
			logger.Warn("warn entry")
			_ = logger.Sync()

			if got := strings.Contains(buf.String(), "debug entry"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(buf.String(), "WARN"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}
