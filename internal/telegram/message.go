package telegram

import (
	"fmt"
	"strings"
)

// Message carries the item fields that end up in the outgoing post. All of
// them may contain feed-controlled text and are escaped during composition.
type Message struct {
	Category  string
	Title     string
	Publisher string
	Host      string
	Body      string
	Link      string
}

// EscapeHTML neutralizes the three characters Telegram's HTML parse mode
// interprets, so feed content cannot inject markup.
func EscapeHTML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// ComposeMessage renders the post. Only bold tags and literal line breaks
// are emitted; everything item-derived goes through EscapeHTML.
func ComposeMessage(m Message) string {
	var b strings.Builder

	if m.Category != "" {
		b.WriteString(EscapeHTML(m.Category))
		b.WriteString("\n")
	}
	b.WriteString("<b>")
	b.WriteString(EscapeHTML(m.Title))
	b.WriteString("</b>\n")
	if m.Publisher != "" {
		fmt.Fprintf(&b, "Kaynak: %s (%s)\n", EscapeHTML(m.Publisher), EscapeHTML(m.Host))
	}
	if m.Body != "" {
		b.WriteString("\n")
		b.WriteString(EscapeHTML(m.Body))
		b.WriteString("\n")
	}
	b.WriteString("\n🔗 ")
	b.WriteString(EscapeHTML(m.Link))

	return b.String()
}
