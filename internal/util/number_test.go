package util

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "integer", input: "42", want: 42, ok: true},
		{name: "decimal", input: " 1.5 ", want: 1.5, ok: true},
		{name: "negative", input: "-3.25", want: -3.25, ok: true},
		{name: "zero", input: "0", want: 0, ok: true},
		{name: "zero decimal", input: "0.75", want: 0.75, ok: true},
		{name: "ean13", input: "5601234567890", want: 5601234567890, ok: true},
		{name: "leading zero barcode", input: "0123456789", ok: false},
		{name: "too many digits", input: "1234567890123456", ok: false},
		{name: "exponent", input: "1e5", ok: false},
		{name: "decimal comma", input: "1,5", ok: false},
		{name: "trailing dot", input: "5.", ok: false},
		{name: "text", input: "ABC", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNumber(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok=%v want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}
