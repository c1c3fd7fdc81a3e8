// Package gemini is the optional enrichment backend: one model call that
// condenses and translates an article in a single step. Enabled when
// GEMINI_API_KEY is set; any failure falls back to the extractive
// summarizer plus the translator.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const maxPromptChars = 6000

type Client struct {
	client *genai.Client
}

// Enrichment is the model's combined output for one item.
type Enrichment struct {
	TitleTR   string
	SummaryTR string
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Enrich asks the model for a Turkish headline and a condensed Turkish
// summary of the article.
func (c *Client) Enrich(ctx context.Context, title, content string) (*Enrichment, error) {
	model := c.client.GenerativeModel("gemini-1.5-flash")

	content = strings.Join(strings.Fields(strings.ReplaceAll(content, "\r", "")), " ")
	if utf8.RuneCountInString(content) > maxPromptChars {
		runes := []rune(content)
		trimmed := string(runes[:maxPromptChars])
		if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
			trimmed = trimmed[:idx+1]
		}
		content = trimmed
	}

	prompt := fmt.Sprintf(`Aşağıdaki İngilizce haberi işle.

HABER:
Başlık: %s
İçerik: %s

GÖREVLER:
1. Başlığı doğal Türkçeye çevir (kelimesi kelimesine değil).
2. Haberi en fazla 4 cümlelik Türkçe bir özet haline getir.

KURALLAR:
- Kişi, platform ve marka adlarını çevirme (YouTube, Twitch, MrBeast gibi).
- "Bu haberde..." gibi giriş kalıpları kullanma.
- Yanıtı tam olarak şu şablonla ver:

BAŞLIK: <Türkçe başlık>

ÖZET: <Türkçe özet>
`, title, content)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}

	return parseResponse(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}

// parseResponse extracts the two template sections; a response missing
// either section is an error so the caller falls back.
func parseResponse(response string) (*Enrichment, error) {
	title := section(response, "BAŞLIK:", "ÖZET:")
	summary := section(response, "ÖZET:", "")
	if title == "" || summary == "" {
		return nil, fmt.Errorf("gemini response missing template sections")
	}
	return &Enrichment{TitleTR: title, SummaryTR: summary}, nil
}

func section(s, marker, next string) string {
	start := strings.Index(s, marker)
	if start < 0 {
		return ""
	}
	s = s[start+len(marker):]
	if next != "" {
		if end := strings.Index(s, next); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}
