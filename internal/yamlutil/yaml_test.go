package yamlutil_test

// Notes:
// - UnmarshalOrdered is exercised with flat and nested mappings; scalar decoding
//   rules (ints, bools) are goccy/go-yaml behavior and only spot-checked here.

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-incidentmd/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "test" {
					t.Errorf("Name = %q, want %q", cfg.Name, "test")
				}
				if cfg.Count != 42 {
					t.Errorf("Count = %d, want %d", cfg.Count, 42)
				}
				if !cfg.Enabled {
					t.Error("Enabled = false, want true")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("name: [unclosed"),
			dest:    &testConfig{},
			wantErr: errors.New("yamlutil:"), // partial match
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				assertErr(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Parses YAML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name: "known fields only",
			data: []byte("name: strict\ncount: 10"),
		},
		{
			name:    "unknown field causes error",
			data:    []byte("name: test\nunknown_field: value"),
			wantErr: errors.New("yamlutil:"),
		},
		{
			name:    "empty data",
			data:    []byte{},
			wantErr: yamlutil.ErrNilData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, &testConfig{})
			if tt.wantErr != nil {
				assertErr(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalOrdered - Keeps mapping key order
// ---------------------------------------------------------------------------

func TestUnmarshalOrdered(t *testing.T) {
	t.Parallel()

	t.Run("keys keep document order", func(t *testing.T) {
		t.Parallel()

		got, err := yamlutil.UnmarshalOrdered([]byte("zeta: 1\nalpha: two\nmid: [a, b]\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		keys := make([]string, 0, len(got))
		for _, kv := range got {
			keys = append(keys, kv.Key)
		}
		if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, keys); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
		if got[1].Value != "two" {
			t.Errorf("alpha = %v, want %q", got[1].Value, "two")
		}
		list, ok := got[2].Value.([]any)
		if !ok || len(list) != 2 {
			t.Fatalf("mid = %#v, want 2-element list", got[2].Value)
		}
	})

	t.Run("nested mapping stays ordered", func(t *testing.T) {
		t.Parallel()

		got, err := yamlutil.UnmarshalOrdered([]byte("outer:\n  b: 1\n  a: 2\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		inner, ok := got[0].Value.([]yamlutil.KeyValue)
		if !ok {
			t.Fatalf("outer = %T, want []KeyValue", got[0].Value)
		}
		if inner[0].Key != "b" || inner[1].Key != "a" {
			t.Errorf("inner keys = %q,%q, want b,a", inner[0].Key, inner[1].Key)
		}
	})

	t.Run("sequence at top level is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.UnmarshalOrdered([]byte("- a\n- b\n"))
		if !errors.Is(err, yamlutil.ErrNotMapping) {
			t.Errorf("errors.Is(err, ErrNotMapping) = false, got: %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.UnmarshalOrdered(nil)
		if !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("errors.Is(err, ErrNilData) = false, got: %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests to avoid data races.

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	yamlutil.MaxInputSize = 50
	data := []byte("name: " + strings.Repeat("x", 94))

	err := yamlutil.Unmarshal(data, &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
	}
	if !strings.Contains(err.Error(), "100 bytes") || !strings.Contains(err.Error(), "max 50") {
		t.Errorf("error should contain sizes, got: %s", err)
	}

	if _, err := yamlutil.UnmarshalOrdered(data); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalOrdered should enforce limit, got: %v", err)
	}
}

func assertErr(t *testing.T, err, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	if errors.Is(err, want) {
		return
	}
	if !strings.Contains(err.Error(), want.Error()) {
		t.Fatalf("error = %q, want containing %q", err, want)
	}
}
