package merchant

import (
	"context"
	"net/url"
	"strings"
	"testing"
)

func TestLinkEncodesMessage(t *testing.T) {
	msg := "*Novo pedido:*\n*Nome:* Ana & Bia\n*Total:* R$ 60,00"
	link := NewWhatsApp("5511999999999").Link(msg)

	if !strings.HasPrefix(link, DefaultBaseURL+"?") {
		t.Fatalf("unexpected link %s", link)
	}
	if strings.ContainsAny(link[len(DefaultBaseURL)+1:], "\n +") {
		t.Fatalf("message not encoded: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.Query().Get("text"); got != msg {
		t.Fatalf("decoded text %q, want %q", got, msg)
	}
	if got := u.Query().Get("phone"); got != "5511999999999" {
		t.Fatalf("unexpected phone %q", got)
	}
}

func TestLinkMatchesBrowserEncoding(t *testing.T) {
	cases := map[string]string{
		"*Nome:* Ana & Bia\nR$ 60,00": "*Nome%3A*%20Ana%20%26%20Bia%0AR%24%2060%2C00",
		"Pudim (2)! it's":             "Pudim%20(2)!%20it's",
		"1+1 = 2":                     "1%2B1%20%3D%202",
		"Endereço":                    "Endere%C3%A7o",
	}
	w := NewWhatsApp("5511999999999")
	for text, want := range cases {
		if got := w.Link(text); got != DefaultBaseURL+"?phone=5511999999999&text="+want {
			t.Fatalf("Link(%q) = %s, want text=%s", text, got, want)
		}
	}
}

func TestSend(t *testing.T) {
	link, err := NewWhatsApp(DefaultPhone).Send(context.Background(), "oi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(link, "phone="+DefaultPhone) {
		t.Fatalf("unexpected link %s", link)
	}
	if _, err := (WhatsApp{}).Send(context.Background(), "oi"); err == nil {
		t.Fatal("expected error without phone")
	}
}
