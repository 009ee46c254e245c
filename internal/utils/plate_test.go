package utils

import "testing"

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"b 1234 cd", "B 1234 CD"},
		{"B1234CD", "B 1234 CD"},
		{"bm1234xy", "BM 1234 XY"},
		{"  BM   1234   XY  ", "BM 1234 XY"},
		{"D 1 A", "D 1 A"},
		{"B1234", "B 1234"},
	}
	for _, tc := range cases {
		if got := NormalizePlate(tc.in); got != tc.want {
			t.Fatalf("NormalizePlate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidPlate(t *testing.T) {
	valid := []string{"B 1234 CD", "bm1234xy", "D 1", "AB 1 C", "B 9999 XYZ"}
	for _, p := range valid {
		if !ValidPlate(p) {
			t.Fatalf("ValidPlate(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "1234", "ABC 1234 DE", "B 12345 CD", "B 1234 WXYZ", "B-1234-CD"}
	for _, p := range invalid {
		if ValidPlate(p) {
			t.Fatalf("ValidPlate(%q) = true, want false", p)
		}
	}
}
