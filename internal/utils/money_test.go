package utils

import "testing"

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{1500, "Rp1.500"},
		{150000, "Rp150.000"},
		{1234567, "Rp1.234.567"},
		{-25000, "-Rp25.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.in); got != tc.want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRupiahToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"Rp 1.000", 1000},
		{"rp150.000", 150000},
		{"1,000", 1000},
		{"  2500 ", 2500},
	}
	for _, tc := range cases {
		got, err := ParseRupiahToInt(tc.in)
		if err != nil {
			t.Fatalf("ParseRupiahToInt(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRupiahToInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	if _, err := ParseRupiahToInt("Rp"); err == nil {
		t.Fatal("expected error for empty amount")
	}
	if _, err := ParseRupiahToInt("abc"); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}
