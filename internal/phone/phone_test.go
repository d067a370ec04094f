package phone

import "testing"

func TestNormalizeStripsFormatting(t *testing.T) {
	n := NewNormalizer("55")
	cases := []struct {
		raw  string
		want string
	}{
		{"+55 (11) 99999-0000", "5511999990000"},
		{"5511999990000", "5511999990000"},
		{"11 99999-0000", "5511999990000"},
		{"(11)99999.0000", "5511999990000"},
		{"+55 11 99999 0000", "5511999990000"},
		{"", ""},
	}
	for _, tt := range cases {
		if got := n.Normalize(tt.raw); got != tt.want {
			t.Fatalf("Normalize(%q)=%q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestVariantsResolveToSameCanonical(t *testing.T) {
	n := NewNormalizer("55")
	variants := []string{
		"+55 (11) 99999-0000",
		"5511999990000",
		"11999990000",
		"55 11 99999-0000",
	}
	want := n.Normalize(variants[0])
	for _, raw := range variants {
		if got := n.Normalize(raw); got != want {
			t.Fatalf("Normalize(%q)=%q, want %q", raw, got, want)
		}
	}
}

func TestWithoutCountryCode(t *testing.T) {
	n := NewNormalizer("55")
	if got := n.WithoutCountryCode("5511999990000"); got != "11999990000" {
		t.Fatalf("WithoutCountryCode=%q", got)
	}
	if got := n.WithoutCountryCode("11999990000"); got != "11999990000" {
		t.Fatalf("WithoutCountryCode no-op=%q", got)
	}
}

func TestWithCountryCodeDoesNotDoublePrefix(t *testing.T) {
	n := NewNormalizer("55")
	if got := n.WithCountryCode("5511999990000"); got != "5511999990000" {
		t.Fatalf("WithCountryCode=%q", got)
	}
}

func TestLookupKeysOrderAndDeduplication(t *testing.T) {
	n := NewNormalizer("55")
	keys := n.LookupKeys("+55 (11) 99999-0000")
	if len(keys) == 0 || keys[0] != "5511999990000" {
		t.Fatalf("canonical key must come first, got %v", keys)
	}
	seen := map[string]bool{}
	for _, key := range keys {
		if seen[key] {
			t.Fatalf("duplicate lookup key %q in %v", key, keys)
		}
		seen[key] = true
	}
	found := false
	for _, key := range keys {
		if key == "11999990000" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected country-code-absent variant in %v", keys)
	}
}
