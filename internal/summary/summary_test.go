package summary

import (
	"strings"
	"testing"
)

const longText = "The streamer was banned from the platform after a marathon broadcast. " +
	"Moderators said the broadcast violated platform rules on several points. " +
	"The ban drew an immediate reaction from the streamer community online. " +
	"Many creators posted clips and reactions within the first hour of the ban. " +
	"The platform declined to comment on the specific rules that were violated. " +
	"Sponsors of the streamer said they were monitoring the situation closely. " +
	"Analysts noted that bans of top streamers often drive viewers to rival platforms. " +
	"The streamer posted an apology video late in the evening after the ban."

func TestSummarizeShortInputUnchanged(t *testing.T) {
	short := "Streamer banned after viral clip."
	if got := Summarize(short, 4); got != short {
		t.Errorf("short input should pass through, got %q", got)
	}
}

func TestSummarizeLimitsSentences(t *testing.T) {
	got := Summarize(longText, 3)
	if got == longText {
		t.Fatal("long input should be condensed")
	}
	if n := len(splitSentences(got)); n != 3 {
		t.Errorf("summary has %d sentences, want 3", n)
	}
	// Selected sentences must come from the input verbatim.
	for _, s := range splitSentences(got) {
		if !strings.Contains(longText, s) {
			t.Errorf("summary sentence %q not found in input", s)
		}
	}
}

func TestSummarizePreservesOrder(t *testing.T) {
	got := Summarize(longText, 4)
	prev := -1
	for _, s := range splitSentences(got) {
		idx := strings.Index(longText, s)
		if idx < prev {
			t.Fatalf("summary sentences out of original order: %q", got)
		}
		prev = idx
	}
}

func TestSummarizeCollapsesWhitespace(t *testing.T) {
	got := Summarize("too   many\n\nspaces here", 2)
	if got != "too many spaces here" {
		t.Errorf("got %q", got)
	}
}

func TestBullets(t *testing.T) {
	in := "First point here. Second point there. Third point everywhere."
	got := Bullets(in)
	if strings.Count(got, "• ") != 3 {
		t.Errorf("expected 3 bullets, got %q", got)
	}
	if !strings.HasPrefix(got, "• First point here.") {
		t.Errorf("bullets should keep sentence punctuation, got %q", got)
	}

	single := "Only one sentence."
	if got := Bullets(single); got != single {
		t.Errorf("single sentence should pass through, got %q", got)
	}
}

func TestBulletsCapsAtFive(t *testing.T) {
	in := "One. Two. Three. Four. Five. Six. Seven."
	if got := Bullets(in); strings.Count(got, "• ") != 5 {
		t.Errorf("expected cap at 5 bullets, got %q", got)
	}
}
