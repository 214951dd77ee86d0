package dispatch

import "testing"

var kmpCases = []struct {
	name    string
	text    string
	pattern string
	want    bool
}{
	{"found at start", "hello world", "hello", true},
	{"found in middle", "hello world", "lo wo", true},
	{"found at end", "hello world", "world", true},
	{"not found", "hello world", "xyz", false},
	{"empty pattern matches anything", "hello", "", true},
	{"pattern longer than text", "hi", "hello", false},
	{"repeated prefix exercises the failure table", "aaaaab", "aaab", true},
}

func TestKmpSearch(t *testing.T) {
	for _, c := range kmpCases {
		pattern := []byte(c.pattern)
		table := kmpTable(pattern)
		got := kmpSearch([]byte(c.text), pattern, table)
		if got != c.want {
			t.Errorf("%s: kmpSearch(%q, %q) = %v, want %v", c.name, c.text, c.pattern, got, c.want)
		}
	}
}
