package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestComposeMessageEscapesItemText(t *testing.T) {
	msg := ComposeMessage(Message{
		Category:  "🟢 Platcorn & Creator",
		Title:     `<script>alert("x")</script> & more`,
		Publisher: "Dexerto <live>",
		Host:      "www.dexerto.com",
		Body:      "a < b & c > d",
		Link:      "https://example.com/a?x=1&y=2",
	})

	if strings.Contains(msg, "<script>") {
		t.Error("title markup not escaped")
	}
	if !strings.Contains(msg, "&lt;script&gt;") {
		t.Error("escaped title missing")
	}
	if !strings.Contains(msg, "Dexerto &lt;live&gt;") {
		t.Error("publisher not escaped")
	}
	if !strings.Contains(msg, "a &lt; b &amp; c &gt; d") {
		t.Error("body not escaped")
	}
	// Only our own bold tags survive.
	if !strings.Contains(msg, "<b>") || !strings.Contains(msg, "</b>") {
		t.Error("bold formatting missing")
	}
}

func TestSendPostsHTMLPayload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/botTOKEN/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier("TOKEN", "42", 5*time.Second)
	n.baseURL = srv.URL

	if err := n.Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSendRetriesOnServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier("TOKEN", "42", 5*time.Second)
	n.baseURL = srv.URL
	n.retryDelay = time.Millisecond

	if err := n.Send(context.Background(), "msg"); err != nil {
		t.Fatalf("Send should succeed on retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestNoopNotifier(t *testing.T) {
	n := NewNoopNotifier()
	if err := n.Send(context.Background(), "anything"); err != nil {
		t.Errorf("noop notifier should never fail, got %v", err)
	}
}
