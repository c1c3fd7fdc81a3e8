package translate

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestProtectAndRestoreProperNouns(t *testing.T) {
	tr := NewTranslator(time.Second, []string{"MrBeast", "Kai Cenat", "Twitch"}, "")

	in := "MrBeast and Kai Cenat stream together on Twitch"
	safe, placeholders := tr.protectProperNouns(in)

	for _, name := range []string{"MrBeast", "Kai Cenat", "Twitch"} {
		if strings.Contains(safe, name) {
			t.Errorf("protected name %q still present in %q", name, safe)
		}
	}
	if got := restoreProperNouns(safe, placeholders); got != in {
		t.Errorf("restore round trip = %q, want %q", got, in)
	}
}

func TestProtectProperNounsCaseInsensitive(t *testing.T) {
	tr := NewTranslator(time.Second, []string{"iShowSpeed"}, "")
	safe, placeholders := tr.protectProperNouns("ISHOWSPEED goes viral again")
	if strings.Contains(strings.ToLower(safe), "ishowspeed") {
		t.Errorf("case-variant name not protected: %q", safe)
	}
	restored := restoreProperNouns(safe, placeholders)
	if !strings.Contains(restored, "iShowSpeed") {
		t.Errorf("restored text should carry the canonical spelling, got %q", restored)
	}
}

func TestExpandMoneyUnits(t *testing.T) {
	tests := []struct{ in, want string }{
		{"MrBeast would make $1.2B from the deal", "MrBeast would make 1.2 billion from the deal"},
		{"a $5M sponsorship", "a 5 million sponsorship"},
		{"around 300K subscribers", "around 300 thousand subscribers"},
	}
	for _, tt := range tests {
		if got := expandMoneyUnits(tt.in); got != tt.want {
			t.Errorf("expandMoneyUnits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocalizeMoneyUnits(t *testing.T) {
	got := localizeMoneyUnits("anlaşmadan 1.2 billion kazanacak, 5 million sponsor")
	if !strings.Contains(got, "1.2 milyar") || !strings.Contains(got, "5 milyon") {
		t.Errorf("units not localized: %q", got)
	}
}

func TestPolishTitle(t *testing.T) {
	got := polishTitle("yayıncı reveals yeni platform  anlaşmasını")
	if !strings.Contains(got, "açıkladı") {
		t.Errorf("verb not patched: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
	if got[:1] != strings.ToUpper(got[:1]) {
		t.Errorf("first letter not capitalized: %q", got)
	}
}

func TestParseGoogleResponse(t *testing.T) {
	body := []byte(`[[["Merhaba ","Hello ",null],["dünya","world",null]],null,"en"]`)
	got, err := parseGoogleResponse(body)
	if err != nil {
		t.Fatalf("parseGoogleResponse: %v", err)
	}
	if got != "Merhaba dünya" {
		t.Errorf("got %q", got)
	}

	if _, err := parseGoogleResponse([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("object response should be rejected")
	}
}

func TestTranslateFailureReturnsInput(t *testing.T) {
	tr := NewTranslator(time.Millisecond, nil, "")
	// The endpoint is unreachable within 1ms; the input must come back.
	in := "Streamer banned after viral clip"
	if got := tr.Translate(context.Background(), in, false); got != in {
		t.Errorf("failed translation should return input, got %q", got)
	}
	if got := tr.Translate(context.Background(), "", true); got != "" {
		t.Errorf("empty input should pass through, got %q", got)
	}
}
