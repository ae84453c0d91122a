package prompt

import "testing"

func TestBindText(t *testing.T) {
	cases := []struct {
		name, input, bindName, value, want string
	}{
		{"no placeholder", "hello world", "x", "y", "hello world"},
		{"simple", "hi ${name}", "name", "Ada", "hi Ada"},
		{"different name untouched", "hi ${other}", "name", "Ada", "hi ${other}"},
		{"repeated", "${n}-${n}", "n", "1", "1-1"},
		{"unclosed", "hi ${name", "name", "Ada", "hi ${name"},
		{"empty identifier", "hi ${}", "name", "Ada", "hi ${}"},
		{"adjacent braces", "${a}${b}", "b", "B", "${a}B"},
		{"leading digit invalid", "${1abc}", "1abc", "x", "${1abc}"},
		{"underscore identifier", "${_private}", "_private", "v", "v"},
		{"digits allowed after first char", "${a1}", "a1", "v", "v"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := bindText(c.input, c.bindName, c.value)
			if got != c.want {
				t.Errorf("bindText(%q, %q, %q) = %q, want %q", c.input, c.bindName, c.value, got, c.want)
			}
		})
	}
}

func TestBindText_ZeroCopyFastPath(t *testing.T) {
	s := "no placeholders here at all"
	if got := bindText(s, "x", "y"); got != s {
		t.Fatalf("expected unchanged string, got %q", got)
	}
}

func TestEncodeBindValue(t *testing.T) {
	s, err := encodeBindValue("literal")
	if err != nil || s != "literal" {
		t.Fatalf("string value should be inserted verbatim, got %q err %v", s, err)
	}
	s, err = encodeBindValue(42)
	if err != nil || s != "42" {
		t.Fatalf("int value should be JSON-encoded, got %q err %v", s, err)
	}
	s, err = encodeBindValue([]int{1, 2, 3})
	if err != nil || s != "[1,2,3]" {
		t.Fatalf("slice value should be JSON-encoded, got %q err %v", s, err)
	}
}
