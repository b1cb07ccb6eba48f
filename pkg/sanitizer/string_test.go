package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"single", "single"},
		{"\ttabs\tand\nnewlines\n", "tabs and newlines"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := TrimAndNormalize(tt.in); got != tt.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Ana  María ", "Ana María"},
		{"Bob\x00Smith", "BobSmith"},
		{"O'Brien", "O'Brien"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFreeText(t *testing.T) {
	in := "  first line \n\n  second\x07 line  "
	want := "first line\n\nsecond line"
	if got := SanitizeFreeText(in); got != want {
		t.Errorf("SanitizeFreeText() = %q, want %q", got, want)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jo.Doe@Example.COM "); got != "jo.doe@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}
