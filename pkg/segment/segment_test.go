package segment

import (
	"strings"
	"testing"
)

func TestSplitTagPathTruncatesToThree(t *testing.T) {
	got := Split("[MESSAGE] a [MESSAGE] b [MESSAGE] c [MESSAGE] d")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitTagPathKeepsOrder(t *testing.T) {
	got := Split("[MESSAGE] Hey!\n[MESSAGE] Kaise ho?")
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %v", got)
	}
	if got[0] != "Hey!" || got[1] != "Kaise ho?" {
		t.Fatalf("unexpected segments: %v", got)
	}
}

func TestSplitSentenceFallback(t *testing.T) {
	got := Split("Hello there. How are you. Nice day.")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentence segments, got %v", got)
	}
	for i, s := range got {
		if !strings.HasSuffix(s, "!") {
			t.Fatalf("segment %d (%q) should end in '!'", i, s)
		}
	}
}

func TestSplitSentenceFallbackKeepsQuestions(t *testing.T) {
	got := Split("I am fine. Kaise ho aap?")
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %v", got)
	}
	if got[0] != "I am fine!" {
		t.Fatalf("unexpected first segment: %q", got[0])
	}
	if !strings.HasSuffix(got[1], "?") {
		t.Fatalf("question should keep its '?': %q", got[1])
	}
}

func TestSplitSentenceFallbackTrailingWhitespace(t *testing.T) {
	// a trailing space puts the final "? " on a sentence boundary, so the
	// question mark is consumed by the split and the segment is marked "!"
	got := Split("I am fine. Kaise ho aap? ")
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %v", got)
	}
	if got[1] != "Kaise ho aap!" {
		t.Fatalf("unexpected second segment: %q", got[1])
	}
}

func TestSplitBisectFallback(t *testing.T) {
	got := Split("hi")
	if len(got) != 2 {
		t.Fatalf("expected exactly 2 segments, got %v", got)
	}
	joined := strings.TrimSuffix(got[0], "!") + strings.TrimSuffix(got[1], "!")
	if joined != "hi" {
		t.Fatalf("halves should reassemble to the input, got %q from %v", joined, got)
	}
}

func TestSplitEmptyInputDegenerates(t *testing.T) {
	got := Split("")
	if len(got) != 2 {
		t.Fatalf("expected 2 segments for empty input, got %v", got)
	}
	if got[0] != "" || got[1] != "" {
		t.Fatalf("expected two empty strings, got %v", got)
	}
}

func TestSplitBoundsForNonEmptyInput(t *testing.T) {
	inputs := []string{
		"hi",
		"just one clause without breaks",
		"One. Two.",
		"One. Two. Three. Four. Five.",
		"[MESSAGE] solo tagged piece. second sentence here.",
		"[MESSAGE] a [MESSAGE] b",
		"नमस्ते दोस्त",
	}
	for _, in := range inputs {
		got := Split(in)
		if len(got) < MinSegments || len(got) > MaxSegments {
			t.Fatalf("Split(%q) returned %d segments: %v", in, len(got), got)
		}
		for i, s := range got {
			if s == "" {
				t.Fatalf("Split(%q) produced empty segment at %d: %v", in, i, got)
			}
		}
	}
}
