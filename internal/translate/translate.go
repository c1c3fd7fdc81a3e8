// Package translate turns English item text into Turkish. The free Google
// Translate endpoint is tried first, then OpenAI when a key is configured.
// Configured proper nouns survive translation verbatim via a reversible
// placeholder swap. Every failure path returns the input unchanged: an
// enrichment failure must never drop a relevant item.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/platcorn/newsbot/internal/logger"
)

// Translator translates EN -> TR.
type Translator struct {
	client      *http.Client
	properNouns []string // longest first, so "Kai Cenat" wins over "Kai"
	openAIKey   string
}

// NewTranslator builds a Translator. properNouns are names that must not be
// translated; openAIKey may be empty (no fallback).
func NewTranslator(timeout time.Duration, properNouns []string, openAIKey string) *Translator {
	nouns := make([]string, len(properNouns))
	copy(nouns, properNouns)
	sort.Slice(nouns, func(i, j int) bool { return len(nouns[i]) > len(nouns[j]) })

	return &Translator{
		client:      &http.Client{Timeout: timeout},
		properNouns: nouns,
		openAIKey:   openAIKey,
	}
}

// Translate returns the Turkish rendering of text. isTitle enables headline
// verb polish on the result. On failure the original text comes back.
func (t *Translator) Translate(ctx context.Context, text string, isTitle bool) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	safe, placeholders := t.protectProperNouns(text)
	safe = expandMoneyUnits(safe)

	translated, err := t.googleTranslate(ctx, safe)
	if err != nil || translated == "" {
		logger.Debug("google translate failed", "error", err)
		if t.openAIKey != "" {
			translated, err = t.openAITranslate(ctx, safe)
		}
		if err != nil || translated == "" {
			return text
		}
	}

	out := restoreProperNouns(translated, placeholders)
	out = localizeMoneyUnits(out)
	if isTitle {
		out = polishTitle(out)
	}
	return out
}

// protectProperNouns swaps each protected name for a unique token so the
// translation backend passes it through untouched.
func (t *Translator) protectProperNouns(text string) (string, map[string]string) {
	placeholders := map[string]string{}
	for i, name := range t.properNouns {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if !re.MatchString(text) {
			continue
		}
		token := fmt.Sprintf("PNX%dX", i)
		placeholders[token] = name
		text = re.ReplaceAllString(text, token)
	}
	return text, placeholders
}

func restoreProperNouns(text string, placeholders map[string]string) string {
	for token, name := range placeholders {
		text = strings.ReplaceAll(text, token, name)
	}
	return text
}

var (
	reBillions  = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)\s?B\b`)
	reMillions  = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)\s?M\b`)
	reThousands = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)\s?K\b`)
)

// expandMoneyUnits rewrites "$1.2B" style shorthand into words before
// translation; the compact form confuses the backends.
func expandMoneyUnits(s string) string {
	s = reBillions.ReplaceAllString(s, "$1 billion")
	s = reMillions.ReplaceAllString(s, "$1 million")
	s = reThousands.ReplaceAllString(s, "$1 thousand")
	s = strings.NewReplacer("’", "'", "“", `"`, "”", `"`).Replace(s)
	return s
}

var (
	reMillionTR  = regexp.MustCompile(`(?i)\b([0-9]+(?:[.,][0-9]+)?)\s*million\b`)
	reBillionTR  = regexp.MustCompile(`(?i)\b([0-9]+(?:[.,][0-9]+)?)\s*billion\b`)
	reThousandTR = regexp.MustCompile(`(?i)\b([0-9]+(?:[.,][0-9]+)?)\s*thousand\b`)
)

// localizeMoneyUnits converts unit words the backend left in English.
func localizeMoneyUnits(s string) string {
	s = reMillionTR.ReplaceAllString(s, "$1 milyon")
	s = reBillionTR.ReplaceAllString(s, "$1 milyar")
	s = reThousandTR.ReplaceAllString(s, "$1 bin")
	return s
}

// titleVerbs patches verbs the backends routinely leave untranslated in
// headlines.
var titleVerbs = []struct {
	re *regexp.Regexp
	tr string
}{
	{regexp.MustCompile(`(?i)\bleaks?\b`), "ifşa etti"},
	{regexp.MustCompile(`(?i)\bclaims?\b`), "iddia etti"},
	{regexp.MustCompile(`(?i)\breveals?\b`), "açıkladı"},
	{regexp.MustCompile(`(?i)\bquits?\b`), "bıraktı"},
	{regexp.MustCompile(`(?i)\bslammed\b`), "tepki çekti"},
	{regexp.MustCompile(`(?i)\bshuts? down\b`), "kapatıldı"},
}

func polishTitle(s string) string {
	for _, v := range titleVerbs {
		s = v.re.ReplaceAllString(s, v.tr)
	}
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

// googleTranslate calls the free gtx endpoint.
func (t *Translator) googleTranslate(ctx context.Context, text string) (string, error) {
	if len(text) > 4000 {
		text = text[:4000]
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "en")
	params.Set("tl", "tr")
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://translate.googleapis.com/translate_a/single?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse unpacks the nested array format of the gtx endpoint.
func parseGoogleResponse(body []byte) (string, error) {
	var response []interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return "", errors.New("empty translate response")
	}
	segments, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected translate response format")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

func (t *Translator) openAITranslate(ctx context.Context, text string) (string, error) {
	client := openai.NewClient(t.openAIKey)

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			Content: "Translate the following English news text to Turkish. " +
				"Keep the tone and journalistic style. Do not translate tokens like PNX0X. " +
				"Reply with the translation only.\n\n" + text,
		}},
		MaxCompletionTokens: 2000,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
