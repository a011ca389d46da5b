package chord

import "testing"

func TestFormatName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"C Minor", "Cm"},
		{"Bb Minor", "Bbm"},
		{"Cminor", "Cm"},
		{"c minor", "cm"},
		{"C# MINOR", "C#m"},
		{"Cm", "Cm"},
		{"C", "C"},
		{"G7", "G7"},
		{"C Minor:3", "Cm:3"},
		{"Am:2", "Am:2"},
	}
	for _, c := range cases {
		if got := FormatName(c.in); got != c.want {
			t.Errorf("FormatName(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestFormatName_PreservesTail(t *testing.T) {
	// The position tail is never rewritten, even when malformed.
	if got := FormatName("C Minor:abc"); got != "Cm:abc" {
		t.Errorf("FormatName() = %q; want %q", got, "Cm:abc")
	}
}

func TestFormatName_Idempotent(t *testing.T) {
	inputs := []string{"C Minor", "Cminor", "Bb Minor:2", "Am", "F#m7", "D Minor 7"}
	for _, in := range inputs {
		once := FormatName(in)
		twice := FormatName(once)
		if once != twice {
			t.Errorf("FormatName not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
