package order

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cartflow/pkg/cart"
	"cartflow/pkg/hours"
)

func pizzaCart() cart.Cart {
	return cart.Cart{
		Entries: []cart.Entry{{Name: "Pizza", UnitPrice: decimal.RequireFromString("30.00"), Quantity: 2}},
		Total:   decimal.RequireFromString("60.00"),
	}
}

func TestValidate(t *testing.T) {
	c := NewComposer(hours.Default())
	cases := []struct {
		name, address string
		want          error
	}{
		{"Ana", "Rua X", nil},
		{"", "Rua X", ErrMissingName},
		{"   ", "", ErrMissingName},
		{"Ana", "", ErrMissingAddress},
		{"Ana", " \t ", ErrMissingAddress},
	}
	for _, tc := range cases {
		if err := c.Validate(tc.name, tc.address); !errors.Is(err, tc.want) {
			t.Fatalf("Validate(%q, %q) = %v, want %v", tc.name, tc.address, err, tc.want)
		}
	}
}

func TestCheckSubmittable(t *testing.T) {
	c := NewComposer(hours.Default())
	tuesdayNight := time.Date(2026, 10, 20, 20, 0, 0, 0, time.Local)
	mondayNight := time.Date(2026, 10, 19, 20, 0, 0, 0, time.Local)
	if err := c.CheckSubmittable(tuesdayNight); err != nil {
		t.Fatalf("expected open, got %v", err)
	}
	if err := c.CheckSubmittable(mondayNight); !errors.Is(err, ErrClosedForOrders) {
		t.Fatalf("expected ErrClosedForOrders, got %v", err)
	}
}

func TestCompose(t *testing.T) {
	msg := NewComposer(hours.Default()).Compose(pizzaCart(), Details{CustomerName: " Ana ", Address: "Rua X", Comments: "sem cebola"})
	want := "*Novo pedido:*\n" +
		"*Nome:* Ana\n" +
		"*Endereço:* Rua X\n" +
		"*Pedido:*\n" +
		"*Pizza* - R$ 30,00 (QTD: 2)\n" +
		"*Total:* R$ 60,00\n" +
		"*Comentários:* sem cebola"
	if msg != want {
		t.Fatalf("unexpected message:\n%s\nwant:\n%s", msg, want)
	}
}

func TestComposeUsesRunningTotal(t *testing.T) {
	ct := pizzaCart()
	ct.Total = decimal.RequireFromString("65")
	msg := NewComposer(hours.Default()).Compose(ct, Details{CustomerName: "Ana", Address: "Rua X"})
	if !strings.Contains(msg, "*Total:* R$ 65,00") {
		t.Fatalf("expected the cart's running total, got:\n%s", msg)
	}
}

func TestComposeSanitizesInput(t *testing.T) {
	ct := pizzaCart()
	ct.Entries = append(ct.Entries, cart.Entry{Name: "<b>Pudim</b>", UnitPrice: decimal.NewFromInt(9), Quantity: 1})
	msg := NewComposer(hours.Default()).Compose(ct, Details{
		CustomerName: "<script>alert(1)</script>",
		Address:      `Rua "A" & B`,
		Comments:     "<img src=x onerror=alert(1)>",
	})
	if strings.Contains(msg, "<script>") || strings.Contains(msg, "<img") || strings.Contains(msg, "<b>") {
		t.Fatalf("live markup in message:\n%s", msg)
	}
	for _, want := range []string{
		"*Nome:* &lt;script&gt;alert(1)&lt;/script&gt;",
		`*Endereço:* Rua "A" &amp; B`,
		"*Comentários:* &lt;img src=x onerror=alert(1)&gt;",
		"*&lt;b&gt;Pudim&lt;/b&gt;* - R$ 9,00 (QTD: 1)",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in message:\n%s", want, msg)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a < b && c > d"); got != "a &lt; b &amp;&amp; c &gt; d" {
		t.Fatalf("unexpected sanitize result %q", got)
	}
	if got := Sanitize("D'Ávila"); got != "D'Ávila" {
		t.Fatalf("expected plain text untouched, got %q", got)
	}
}
