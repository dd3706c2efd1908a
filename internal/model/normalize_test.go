package model

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/mnt/c/Users/x", "C:/Users/x"},
		{`C:\Users\x`, "C:/Users/x"},
		{`/mnt/c/Users\x`, "C:/Users/x"},
		{"C:/Users/x", "C:/Users/x"},
		{"/usr/local/lib", "/usr/local/lib"},
		{`relative\sub\dir`, "relative/sub/dir"},
		{"", ""},
	}

	for _, c := range cases {
		got := Normalize(c.in)
		if got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"/mnt/c/Users/x",
		`C:\Users\x`,
		"/opt/tools",
		`\\server\share`,
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
