package textutil

import (
	"strings"
	"testing"
)

func TestWordsFoldsAndSplits(t *testing.T) {
	got := Words("The CHORUS, then/Verse 2! Don't stop")
	want := []string{"the", "chorus", "then", "verse", "2", "don't", "stop"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Words = %v, want %v", got, want)
	}
}

func TestPhraseIndexRespectsWordBoundaries(t *testing.T) {
	tokens := Words("Musical theory explained, you know, with a song")
	if idx := PhraseIndex(tokens, "music"); idx != -1 {
		t.Fatalf("expected no match for music inside musical, got %d", idx)
	}
	if idx := PhraseIndex(tokens, "song"); idx != len(tokens)-1 {
		t.Fatalf("expected song at end, got %d", idx)
	}
	if idx := PhraseIndex(tokens, "You Know"); idx != 3 {
		t.Fatalf("expected multi-word match at 3, got %d", idx)
	}
	if idx := PhraseIndex(tokens, "  "); idx != -1 {
		t.Fatalf("expected empty phrase to miss, got %d", idx)
	}
}

func TestTruncateRunesIsRuneSafe(t *testing.T) {
	cut, truncated := TruncateRunes("héllo wörld", 4)
	if cut != "héll" || !truncated {
		t.Fatalf("unexpected truncate result %q %v", cut, truncated)
	}
	cut, truncated = TruncateRunes("short", 10)
	if cut != "short" || truncated {
		t.Fatalf("unexpected result for short input %q %v", cut, truncated)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := Preview(long, 200)
	if len(got) != 203 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected preview length %d", len(got))
	}
	if got := Preview("  brief  ", 200); got != "brief" {
		t.Fatalf("expected trimmed text without ellipsis, got %q", got)
	}
}

func TestSanitizeExtension(t *testing.T) {
	cases := map[string]string{
		"lecture.MP4":        ".mp4",
		"../../etc/passwd":   ".bin",
		"clip.mk?v":          ".mkv",
		"noext":              ".bin",
		"weird.abcdefghijkl": ".abcdefgh",
	}
	for in, want := range cases {
		if got := SanitizeExtension(in, ".bin"); got != want {
			t.Fatalf("SanitizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title("needs improvement"); got != "Needs Improvement" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"  {\"a\":1}  ":                 `{"a":1}`,
		"```json\n{\"a\":1}\n```":       `{"a":1}`,
		"```JSON {\"a\":1} ```":         `{"a":1}`,
		"```\n{\"a\":1}\n```\n":         `{"a":1}`,
		"```json\n{\"a\":1}":            `{"a":1}`,
		"prose ```json\n{\"a\":1}\n```": "prose ```json\n{\"a\":1}\n```",
	}
	for input, want := range tests {
		if got := StripCodeFence(input); got != want {
			t.Fatalf("StripCodeFence(%q) = %q, want %q", input, got, want)
		}
	}
}
