package tagger

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractTags(t *testing.T) {
	t.Parallel()

	tg := Default()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "azure first even when listed later in text",
			text: "DNS lookups failed for the App Service.",
			want: []string{"Azure", "Networking"},
		},
		{
			name: "case insensitive",
			text: "KUBECTL showed crashing PODS",
			want: []string{"Kubernetes"},
		},
		{
			name: "each tag once",
			text: "firewall, firewall, vpn, dns",
			want: []string{"Networking"},
		},
		{
			name: "table order for the rest",
			text: "Rollback after TLS certificate expired on the database",
			want: []string{"Database", "Security", "Deployment"},
		},
		{
			name: "no match yields empty list",
			text: "Nothing notable happened.",
			want: []string{},
		},
		{
			name: "keyword inside lessons is not sso",
			text: "LESSONS LEARNED\nWrite runbooks.",
			want: []string{},
		},
		{
			name: "keywords inside longer words do not match",
			text: "The central records service breaks under load.",
			want: []string{},
		},
		{
			name: "pod inside tripod",
			text: "The camera tripod fell over.",
			want: []string{},
		},
		{
			name: "whole words still match next to punctuation",
			text: "(SSO) failed; RDS, AKS.",
			want: []string{"Azure", "AWS", "Authentication"},
		},
		{
			name: "prefix keyword matches longer words",
			text: "Requests were throttled, then deployments paused.",
			want: []string{"Deployment", "Performance"},
		},
		{
			name: "keyword with slash",
			text: "The CI/CD run was cancelled.",
			want: []string{"Deployment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tg.ExtractTags(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractTags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewWithExtraRules(t *testing.T) {
	t.Parallel()

	tg, err := New(
		Rule{Tag: "Payments", Keywords: []string{" Stripe "}},
		Rule{Tag: "networking", Keywords: []string{"bgp"}},
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got := tg.ExtractTags("BGP flap broke stripe webhooks")
	if diff := cmp.Diff([]string{"Networking", "Payments"}, got); diff != "" {
		t.Errorf("ExtractTags() mismatch (-want +got):\n%s", diff)
	}

	// The shared embedded table is untouched.
	if got := Default().ExtractTags("bgp"); len(got) != 0 {
		t.Errorf("default tagger picked up extra keyword: %v", got)
	}
}

func TestNewRejectsInvalidRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule Rule
	}{
		{"empty tag", Rule{Tag: " ", Keywords: []string{"x"}}},
		{"no keywords", Rule{Tag: "X"}},
		{"blank keywords", Rule{Tag: "X", Keywords: []string{"", "  "}}},
		{"bare prefix marker", Rule{Tag: "X", Keywords: []string{PrefixMarker}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := New(tt.rule); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("New() error = %v, want %v", err, ErrInvalidRule)
			}
		})
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	t.Parallel()

	tg := Default()
	rules := tg.Rules()
	rules[0].Keywords[0] = "mutated"
	if tg.Rules()[0].Keywords[0] == "mutated" {
		t.Error("Rules() exposed internal state")
	}
	if rules[0].Tag != PriorityTag {
		t.Errorf("first rule = %q, want %q", rules[0].Tag, PriorityTag)
	}
}

func TestExtractTagsConcurrent(t *testing.T) {
	t.Parallel()

	tg := Default()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := tg.ExtractTags("azure vpn"); len(got) != 2 {
				t.Errorf("ExtractTags() = %v, want 2 tags", got)
			}
		}()
	}
	wg.Wait()
}
