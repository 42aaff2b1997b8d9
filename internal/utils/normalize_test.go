package utils

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeNameLower(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Ipê  Amarelo ", "ipê amarelo"},
		{"HANDROANTHUS", "handroanthus"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := NormalizeNameLower(tc.in); got != tc.want {
			t.Errorf("NormalizeNameLower(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ipê Amarelo.JPG", "ipe-amarelo.jpg"},
		{"minha árvore (1).png", "minha-arvore-1.png"},
		{"___foto__.jpeg", "foto-.jpeg"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := SlugifyFilename(tc.in); got != tc.want {
			t.Errorf("SlugifyFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSearchTokens(t *testing.T) {
	got := SearchTokens("Ipê-amarelo", "Handroanthus albus")
	want := []string{"ipê-amarelo", "handroanthus albus", "handroanthus", "albus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchTokens = %v, want %v", got, want)
	}
}

func TestSearchTokensDedupes(t *testing.T) {
	got := SearchTokens("Albus", "albus")
	if !reflect.DeepEqual(got, []string{"albus"}) {
		t.Errorf("SearchTokens = %v", got)
	}
}

func TestTrimMax(t *testing.T) {
	if got := TrimMax("  hello  ", 10); got != "hello" {
		t.Errorf("TrimMax = %q", got)
	}
	if got := TrimMax("abcdef", 3); got != "abc" {
		t.Errorf("TrimMax = %q", got)
	}
}

func TestTrimMaxKeepsRunesWhole(t *testing.T) {
	long := strings.Repeat("€", 200)
	got := TrimMax(long, 500)
	if !utf8.ValidString(got) {
		t.Errorf("TrimMax produced invalid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) > 500 {
		t.Errorf("TrimMax returned %d bytes, want <= 500", len(got))
	}
	if want := strings.Repeat("€", 166); got != want {
		t.Errorf("TrimMax kept %d runes, want 166", utf8.RuneCountInString(got))
	}
	if got := TrimMax("cão", 2); got != "c" {
		t.Errorf("TrimMax(%q, 2) = %q, want %q", "cão", got, "c")
	}
}

func TestParseTime(t *testing.T) {
	if _, err := ParseTime("2026-08-30T12:00:00Z"); err != nil {
		t.Errorf("RFC3339 rejected: %v", err)
	}
	if _, err := ParseTime("2026-08-30"); err != nil {
		t.Errorf("date-only rejected: %v", err)
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected error for junk input")
	}
}
