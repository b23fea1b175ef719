package chatbot

import (
	"strings"
	"testing"
)

func TestMatcherMatch(t *testing.T) {
	table := DefaultTable()
	m := NewMatcher(nil)

	responseFor := func(keyword string) string {
		for _, e := range table.Entries {
			if e.Keyword == keyword {
				return e.Response
			}
		}
		t.Fatalf("keyword %q not in default table", keyword)
		return ""
	}

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"fees question", "What are your fees?", responseFor("fees")},
		{"mock test only", "Where is mock test held?", responseFor("mock test")},
		{"no keyword", "hello", table.Default},
		{"upper case", "FEES please", responseFor("fees")},
		{"earlier keyword wins", "fees for the mock test", responseFor("fees")},
		{"courses before admission", "which courses need admission", responseFor("courses")},
		{"substring inside word", "coursesss", responseFor("courses")},
		{"empty input", "", table.Default},
		{"split keyword does not match", "mock   test", table.Default},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Match(tc.input); got != tc.want {
				t.Fatalf("Match(%q): got=%q want=%q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMatcherIsDeterministic(t *testing.T) {
	m := NewMatcher(nil)
	first := m.Match("Timing of classes?")
	for i := 0; i < 5; i++ {
		if got := m.Match("Timing of classes?"); got != first {
			t.Fatalf("call %d: got=%q want=%q", i, got, first)
		}
	}
	if !strings.Contains(first, "4 PM to 9 PM") {
		t.Fatalf("unexpected timing response: %q", first)
	}
}

func TestMatcherMatchKeyword(t *testing.T) {
	m := NewMatcher(nil)

	kw, resp := m.MatchKeyword("Tell me about ADMISSION")
	if kw != "admission" || resp == "" {
		t.Fatalf("got keyword=%q response=%q", kw, resp)
	}

	kw, resp = m.MatchKeyword("good morning")
	if kw != "" || resp != m.Table().Default {
		t.Fatalf("expected default, got keyword=%q response=%q", kw, resp)
	}
}

func TestMatcherSwap(t *testing.T) {
	m := NewMatcher(nil)
	m.Swap(&Table{
		Greeting: "hi",
		Default:  "call us",
		Entries:  []Entry{{Keyword: "library", Response: "open till 8"}},
	})

	if got := m.Match("Is the LIBRARY open?"); got != "open till 8" {
		t.Fatalf("got=%q", got)
	}
	if got := m.Match("fees"); got != "call us" {
		t.Fatalf("old table still active: %q", got)
	}

	m.Swap(nil)
	if m.Greeting() != "hi" {
		t.Fatalf("Swap(nil) must keep the current table")
	}
}
