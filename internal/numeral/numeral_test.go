package numeral

import (
	"errors"
	"math"
	"testing"
)

func mustDecode(t *testing.T, s string) float64 {
	t.Helper()
	v, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode(%q): %v", s, err)
	}
	return v
}

func TestRoundTripSmallIntegers(t *testing.T) {
	for n := -9; n <= 99; n++ {
		enc := Encode(float64(n))
		if got := mustDecode(t, enc); got != float64(n) {
			t.Errorf("decode(encode(%d)) = %v (encoded %q)", n, got, enc)
		}
	}
}

func TestEncodeForms(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "◈〇"},
		{7, "◈七"},
		{-3, "◈⁻三"},
		{10, "◈十"},
		{12, "◈十二"},
		{20, "◈二十"},
		{42, "◈四十二"},
		{99, "◈九十九"},
		{100, "◈百"},
		{1000, "◈千"},
		{10000, "◈万"},
		{100000, "◈兆"},
		{150, "◈一五〇"},
		{1000000, "◈一〇〇〇〇〇〇"},
		{-42, "◈负四十二"},
		{1.5, "◈一．五"},
		{math.Pi, "◈π"},
		{3.14159, "◈π"},
		{math.E, "◈ℯ"},
		{1.6181, "◈φ"},
		{math.Inf(1), "◈∞"},
		{math.Inf(-1), "◈负∞"},
		{0.5, "◈½"},
		{0.3334, "◈⅓"},
		{-0.25, "◈负¼"},
		{0.1, "◈十％"},
		{0.05, "◈五％"},
		{math.NaN(), "◈"},
	}
	for _, tt := range tests {
		if got := Encode(tt.in); got != tt.want {
			t.Errorf("Encode(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBooleansAreDecodeOnly(t *testing.T) {
	if Encode(1) != "◈一" || Encode(0) != "◈〇" {
		t.Fatalf("0 and 1 must stay digits: %q %q", Encode(0), Encode(1))
	}
	if mustDecode(t, "◈真") != 1 || mustDecode(t, "◈假") != 0 {
		t.Fatal("boolean aliases must decode")
	}
}

func TestDecodeForms(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"◈十", 10},
		{"◈十七", 17},
		{"◈三十", 30},
		{"◈四十二", 42},
		{"◈⁻九", -9},
		{"◈负一二三", -123},
		{"◈一二三", 123},
		{"◈百", 100},
		{"◈兆", 100000},
		{"◈〇．二五", 0.25},
		{"◈．五", 0.5},
		{"◈二十五％", 0.25},
		{"◈十％", 0.1},
		{"◈¾", 0.75},
	}
	for _, tt := range tests {
		if got := mustDecode(t, tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Decode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConstants(t *testing.T) {
	if got := mustDecode(t, Encode(math.Pi)); math.Abs(got-math.Pi) > 1e-4 {
		t.Errorf("pi round trip = %v", got)
	}
	if got := mustDecode(t, "◈∞"); !math.IsInf(got, 1) {
		t.Errorf("infinity marker decoded to %v", got)
	}
	if got := mustDecode(t, "◈负∞"); !math.IsInf(got, -1) {
		t.Errorf("negative infinity decoded to %v", got)
	}
}

// Above 99 only numeric equality per cycle is guaranteed.
func TestLargeValuesRoundTripNumerically(t *testing.T) {
	for _, v := range []float64{100, 101, 250, 999, 1000, 12345, 100000, 123456789, -500, 2.75, 1234.5} {
		if got := mustDecode(t, Encode(v)); got != v {
			t.Errorf("decode(encode(%v)) = %v", v, got)
		}
	}
	// "一〇〇" и "百" обозначают одно и то же
	if mustDecode(t, "◈一〇〇") != mustDecode(t, "◈百") {
		t.Error("positional and power forms must agree")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		in        string
		offending string
	}{
		{"四十二", "四"},
		{"", ""},
		{"◈", "◈"},
		{"◈四x", "x"},
		{"◈负", "◈负"},
		{"◈二三十", "二三"},
		{"◈十二三", "二三"},
		{"◈一．", "．"},
		{"◈函", "函"},
	}
	for _, tt := range tests {
		_, err := Decode(tt.in)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Decode(%q): expected DecodeError, got %v", tt.in, err)
			continue
		}
		if de.Offending != tt.offending {
			t.Errorf("Decode(%q): offending = %q, want %q", tt.in, de.Offending, tt.offending)
		}
		if de.Error() == "" {
			t.Errorf("empty error message")
		}
	}
}
