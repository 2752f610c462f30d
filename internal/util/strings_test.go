package util

import "testing"

func TestTrimHelpers(t *testing.T) {
	if got := TrimAndLower("  My_Pets "); got != "my_pets" {
		t.Fatalf("TrimAndLower: got %q", got)
	}
	if v, ok := TrimEmptyCheck("   "); ok || v != "" {
		t.Fatalf("TrimEmptyCheck on blanks: got %q,%v", v, ok)
	}
	if got := TrimWithDefault(" ", "x"); got != "x" {
		t.Fatalf("TrimWithDefault: got %q", got)
	}
}

func TestEnsureTrailingSlash(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"http://host":        "http://host/",
		"http://host/":       "http://host/",
		"http://host/prefix": "http://host/prefix/",
	}
	for in, want := range cases {
		if got := EnsureTrailingSlash(in); got != want {
			t.Fatalf("EnsureTrailingSlash(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Давай", 3); got != "Дав..." {
		t.Fatalf("Truncate runes: got %q", got)
	}
	if got := Truncate("cat", 10); got != "cat" {
		t.Fatalf("Truncate short: got %q", got)
	}
	if got := Truncate("cat", 0); got != "" {
		t.Fatalf("Truncate zero: got %q", got)
	}
}
