package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "ISO date format", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "European format", format: "DD/MM/YYYY", want: "02/01/2006"},
		{name: "long format with full month name", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "short month with year", format: "MMM YYYY", want: "Jan 2006"},
		{name: "two-digit year", format: "YY", want: "06"},
		{name: "brackets preserve tokens as literals", format: "[YYYY] YYYY", want: "YYYY 2006"},
		{name: "empty brackets are valid", format: "[]YYYY", want: "2006"},
		{name: "nested-looking brackets use first close", format: "[[a]]", want: "[a]"},
		{name: "unclosed bracket returns error", format: "[Date YYYY", wantErr: ErrInvalidDateFormat},
		{name: "empty format returns error", format: "", wantErr: ErrInvalidDateFormat},
		{name: "format exceeding max length returns error", format: strings.Repeat("Y", MaxDateFormatLength+1), wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{name: "literal date passthrough", value: "2024-01-15", want: "2024-01-15"},
		{name: "empty string passthrough", value: "", want: ""},
		{name: "auto uses default ISO format", value: "auto", want: "2026-03-07"},
		{name: "AUTO is case insensitive", value: "AUTO", want: "2026-03-07"},
		{name: "auto with custom format", value: "auto:DD/MM/YYYY", want: "07/03/2026"},
		{name: "auto with preset", value: "auto:long", want: "March 7, 2026"},
		{name: "preset is case insensitive", value: "auto:US", want: "03/07/2026"},
		{name: "auto: with empty format returns error", value: "auto:", wantErr: ErrInvalidDateFormat},
		{name: "autoX invalid syntax returns error", value: "autoX", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDate(tt.value, fixed)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveDate(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantDay int
		wantErr bool
	}{
		{name: "ISO date", value: "2026-10-16", wantDay: 16},
		{name: "ISO date with surrounding spaces", value: "  2026-10-16 ", wantDay: 16},
		{name: "RFC 3339", value: "2026-10-16T08:00:00Z", wantDay: 16},
		{name: "space separated datetime", value: "2026-10-16 08:00:00", wantDay: 16},
		{name: "european date rejected", value: "16/10/2026", wantErr: true},
		{name: "free text rejected", value: "yesterday", wantErr: true},
		{name: "impossible day rejected", value: "2026-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDate(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseableDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrUnparseableDate", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q).Day() = %d, want %d", tt.value, got.Day(), tt.wantDay)
			}
		})
	}
}
