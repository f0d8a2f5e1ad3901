package tokenizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and splits",
			in:   "The Cat SAT",
			want: []string{"the", "cat", "sat"},
		},
		{
			name: "punctuation becomes separator",
			in:   "don't stop-me now!",
			want: []string{"don", "t", "stop", "me", "now"},
		},
		{
			name: "digits kept",
			in:   "go 1.21 beats go1",
			want: []string{"go", "1", "21", "beats", "go1"},
		},
		{
			name: "whitespace runs collapse",
			in:   "a\t\tb\n\n  c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "non-ascii letters dropped",
			in:   "café naïve",
			want: []string{"caf", "na", "ve"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "all punctuation",
			in:   "!!! ... ???",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestTokenizeIdempotentOnOwnOutput(t *testing.T) {
	inputs := []string{
		"The quick brown fox, jumps over 42 lazy dogs!",
		"MIXED case And   spacing",
		"symbols *&^%$ everywhere #2024",
		"",
	}
	for _, in := range inputs {
		once := Tokenize(in)
		twice := Tokenize(strings.Join(once, " "))
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Tokenize not idempotent for %q (-once +twice):\n%s", in, diff)
		}
	}
}

func TestFrequencies(t *testing.T) {
	got := Frequencies("Cat dog cat CAT, dog.")
	want := map[string]int{"cat": 3, "dog": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Frequencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequenciesEmpty(t *testing.T) {
	if got := Frequencies(""); len(got) != 0 {
		t.Errorf("Frequencies(\"\") = %v, want empty", got)
	}
}
