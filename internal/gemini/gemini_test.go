package gemini

import "testing"

func TestParseResponse(t *testing.T) {
	resp := `BAŞLIK: Yayıncı viral klip sonrası yasaklandı

ÖZET: Platform, yayıncının hesabını kural ihlali nedeniyle kapattı. Topluluk karara tepki gösterdi.`

	e, err := parseResponse(resp)
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if e.TitleTR != "Yayıncı viral klip sonrası yasaklandı" {
		t.Errorf("title = %q", e.TitleTR)
	}
	if e.SummaryTR == "" || e.SummaryTR[:8] != "Platform" {
		t.Errorf("summary = %q", e.SummaryTR)
	}
}

func TestParseResponseMissingSections(t *testing.T) {
	for _, resp := range []string{
		"",
		"BAŞLIK: sadece başlık var",
		"ÖZET: sadece özet var",
		"free-form text with no template",
	} {
		if _, err := parseResponse(resp); err == nil {
			t.Errorf("expected error for %q", resp)
		}
	}
}
