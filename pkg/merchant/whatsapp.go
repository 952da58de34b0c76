// Package merchant delivers composed orders to the restaurant.
package merchant

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the WhatsApp click-to-chat endpoint.
	DefaultBaseURL = "https://api.whatsapp.com/send"
	// DefaultPhone is the restaurant's WhatsApp number.
	DefaultPhone = "5511997658875"
)

// WhatsApp hands an order over as a click-to-chat link that opens a chat
// with the restaurant prefilled with the message.
type WhatsApp struct {
	Phone   string
	BaseURL string
}

// NewWhatsApp returns a channel to phone, using DefaultBaseURL.
func NewWhatsApp(phone string) WhatsApp {
	return WhatsApp{Phone: phone, BaseURL: DefaultBaseURL}
}

// Link builds the chat link carrying text. Each query component is
// escaped like a browser's encodeURIComponent, so spaces become %20.
func (w WhatsApp) Link(text string) string {
	base := w.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "?phone=" + escapeComponent(w.Phone) + "&text=" + escapeComponent(text)
}

// componentUnescape undoes the escapes url.QueryEscape applies beyond
// encodeURIComponent. A literal plus is already %2B, so every remaining
// plus stands for a space.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func escapeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}

// Send returns the link the customer's browser opens to deliver message.
func (w WhatsApp) Send(ctx context.Context, message string) (string, error) {
	if w.Phone == "" {
		return "", errors.New("merchant phone not configured")
	}
	return w.Link(message), nil
}
