// Package summary produces extractive summaries: the highest-scoring
// sentences of the input, in original order. Scoring is word-frequency
// based; no model call, so it never fails and never blocks a run.
package summary

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// minWords is the threshold below which summarizing is degenerate; shorter
// inputs are returned unchanged.
const minWords = 60

var sentenceEnd = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// Summarize returns up to sentences sentences of text, selected by
// frequency score, joined in their original order.
func Summarize(text string, sentences int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || sentences <= 0 {
		return text
	}
	if len(strings.Fields(text)) < minWords {
		return text
	}

	parts := splitSentences(text)
	if len(parts) <= sentences {
		return text
	}

	freq := wordFrequencies(text)
	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(parts))
	for i, s := range parts {
		ranked[i] = scored{index: i, score: sentenceScore(s, freq)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	picked := ranked[:sentences]
	sort.Slice(picked, func(i, j int) bool { return picked[i].index < picked[j].index })

	out := make([]string, len(picked))
	for i, s := range picked {
		out[i] = parts[s.index]
	}
	return strings.Join(out, " ")
}

// splitSentences keeps the terminal punctuation with each sentence.
func splitSentences(text string) []string {
	var parts []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			parts = append(parts, s)
		}
		last = loc[1]
	}
	if last < len(text) {
		if s := strings.TrimSpace(text[last:]); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// stopwords excluded from frequency scoring; common English plus the Turkish
// function words that show up in mixed-language feed text.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"in": true, "on": true, "to": true, "for": true, "with": true, "is": true,
	"are": true, "was": true, "were": true, "it": true, "that": true,
	"this": true, "as": true, "at": true, "by": true, "from": true,
	"be": true, "has": true, "have": true, "had": true, "but": true,
	"ve": true, "bir": true, "bu": true, "da": true, "de": true, "ile": true,
	"için": true, "gibi": true, "daha": true, "çok": true,
}

func wordFrequencies(text string) map[string]float64 {
	freq := map[string]float64{}
	for _, w := range words(text) {
		if stopwords[w] || len([]rune(w)) <= 2 {
			continue
		}
		freq[w]++
	}
	var max float64
	for _, f := range freq {
		if f > max {
			max = f
		}
	}
	if max > 0 {
		for w := range freq {
			freq[w] /= max
		}
	}
	return freq
}

func sentenceScore(sentence string, freq map[string]float64) float64 {
	ws := words(sentence)
	if len(ws) == 0 {
		return 0
	}
	var total float64
	for _, w := range ws {
		total += freq[w]
	}
	// Normalize by length so long sentences don't win by volume alone.
	return total / float64(len(ws))
}

func words(s string) []string {
	s = strings.ToLower(s)
	runes := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			runes = append(runes, r)
		} else {
			runes = append(runes, ' ')
		}
	}
	return strings.Fields(string(runes))
}

// Bullets splits a paragraph into up to five bullet lines for readability.
// Single-sentence input comes back unchanged.
func Bullets(paragraph string) string {
	parts := splitSentences(paragraph)
	if len(parts) <= 1 {
		return paragraph
	}
	if len(parts) > 5 {
		parts = parts[:5]
	}
	return "• " + strings.Join(parts, "\n• ")
}
