package main

// Notes:
// - Scripts are checked for the commands and flag values they must offer;
//   they are not executed by a real shell.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script generation per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell  Shell
		marker string
	}{
		{ShellBash, "complete -F _incidentmd_completions incidentmd"},
		{ShellZsh, "#compdef incidentmd"},
		{ShellFish, "complete -c incidentmd"},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%s) error: %v", tt.shell, err)
			}
			script := buf.String()

			if !strings.Contains(script, tt.marker) {
				t.Errorf("script missing %q", tt.marker)
			}
			for _, cmd := range []string{"convert", "watch", "completion", "version", "help"} {
				if !strings.Contains(script, cmd) {
					t.Errorf("script missing command %q", cmd)
				}
			}
			for _, flag := range []string{"preamble", "debounce", "slug", "meta"} {
				if !strings.Contains(script, flag) {
					t.Errorf("script missing flag %q", flag)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for unsupported shell", buf.Len())
	}
}

func TestGenerateCompletion_EnumValues(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{ShellBash, ShellZsh, ShellFish} {
		var buf bytes.Buffer
		if err := GenerateCompletion(&buf, shell); err != nil {
			t.Fatalf("GenerateCompletion(%s) error: %v", shell, err)
		}
		if !strings.Contains(buf.String(), "issue discard") {
			t.Errorf("%s script missing preamble values", shell)
		}
	}
}

func TestGenerateCompletion_BashNotesGlob(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, ShellBash); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "!*.@(txt|notes)") {
		t.Error("bash script should filter convert arguments to notes files")
	}
	if !strings.Contains(buf.String(), "!*.@(yaml|yml)") {
		t.Error("bash script should filter --config to YAML files")
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Registry built from the FlagSets
// ---------------------------------------------------------------------------

func TestGetCommands_ReturnsExpectedCommands(t *testing.T) {
	t.Parallel()

	var names []string
	for _, c := range getCommands() {
		names = append(names, c.Name)
	}
	want := "convert watch completion version help"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("commands = %q, want %q", got, want)
	}
}

func TestGetCommands_FlagTypes(t *testing.T) {
	t.Parallel()

	flags := map[string]flagDef{}
	for _, c := range getCommands() {
		if c.Name == "convert" {
			for _, f := range c.Flags {
				flags[f.Long] = f
			}
		}
	}

	tests := []struct {
		name string
		want flagType
	}{
		{"preamble", flagEnum},
		{"config", flagFile},
		{"meta", flagFile},
		{"output", flagDir},
		{"workers", flagInt},
		{"quiet", flagBool},
		{"title", flagString},
	}
	for _, tt := range tests {
		f, ok := flags[tt.name]
		if !ok {
			t.Errorf("convert missing flag --%s", tt.name)
			continue
		}
		if f.Type != tt.want {
			t.Errorf("--%s type = %d, want %d", tt.name, f.Type, tt.want)
		}
	}
	if flags["output"].Short != "o" {
		t.Errorf("--output short = %q, want o", flags["output"].Short)
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - Command entry point
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv("")
	if err := runCompletion(nil, env); err != nil {
		t.Fatalf("runCompletion(nil) error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Supported shells:") {
		t.Errorf("stdout = %q, want usage", stdout.String())
	}

	env, stdout, _ = testEnv("")
	if err := runCompletion([]string{"zsh"}, env); err != nil {
		t.Fatalf("runCompletion(zsh) error: %v", err)
	}
	if !strings.Contains(stdout.String(), "compdef _incidentmd incidentmd") {
		t.Errorf("stdout missing zsh script")
	}
}

func TestZshEscape(t *testing.T) {
	t.Parallel()

	got := zshEscape("name outputs <date>-<slug>.md: it's [x]")
	want := `name outputs <date>-<slug>.md\: it'\''s \[x\]`
	if got != want {
		t.Errorf("zshEscape() = %q, want %q", got, want)
	}
}
