package util

import "testing"

func TestNormalizeHeader(t *testing.T) {
	decomposed := "Co\u0301digo Barras"
	if got := NormalizeHeader("  " + decomposed + "\t"); got != "Código Barras" {
		t.Fatalf("got %q", got)
	}
}

func TestIsPlaceholderHeader(t *testing.T) {
	cases := []struct {
		header string
		want   bool
	}{
		{"", true},
		{"   ", true},
		{"Unnamed: 0", true},
		{"Unnamed: 12", true},
		{"Unnamed: 3.1", true},
		{"Unnamed", true},
		{"Unnamed Category", false},
		{"Artigo", false},
	}
	for _, tc := range cases {
		if got := IsPlaceholderHeader(tc.header); got != tc.want {
			t.Fatalf("IsPlaceholderHeader(%q)=%v want %v", tc.header, got, tc.want)
		}
	}
}

func TestIsPlaceholderValue(t *testing.T) {
	for _, v := range []string{"", "nan", "NaN", "None"} {
		if !IsPlaceholderValue(v) {
			t.Fatalf("%q should be a placeholder", v)
		}
	}
	for _, v := range []string{"NAN", "none", "0", "N/A"} {
		if IsPlaceholderValue(v) {
			t.Fatalf("%q should not be a placeholder", v)
		}
	}
}
