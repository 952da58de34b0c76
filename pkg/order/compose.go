// Package order turns a cart into an order message for the merchant and
// keeps a record of placed orders.
package order

import (
	"fmt"
	"strings"
	"time"

	"cartflow/pkg/cart"
	"cartflow/pkg/hours"
	"cartflow/pkg/money"
)

// Composer validates checkout input and renders the merchant message.
// It never changes the cart.
type Composer struct {
	Hours hours.Policy
}

// NewComposer returns a Composer gated by policy.
func NewComposer(policy hours.Policy) Composer {
	return Composer{Hours: policy}
}

// Validate checks the required fields. The name is checked first.
func (c Composer) Validate(customerName, address string) error {
	if strings.TrimSpace(customerName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(address) == "" {
		return ErrMissingAddress
	}
	return nil
}

// CheckSubmittable fails with ErrClosedForOrders outside business hours.
func (c Composer) CheckSubmittable(now time.Time) error {
	if !c.Hours.IsOpen(now) {
		return ErrClosedForOrders
	}
	return nil
}

// Compose renders the order text sent to the merchant.
func (c Composer) Compose(ct cart.Cart, d Details) string {
	d = d.Clean()
	var b strings.Builder
	b.WriteString("*Novo pedido:*\n")
	fmt.Fprintf(&b, "*Nome:* %s\n", d.CustomerName)
	fmt.Fprintf(&b, "*Endereço:* %s\n", d.Address)
	b.WriteString("*Pedido:*\n")
	for _, e := range ct.Entries {
		fmt.Fprintf(&b, "*%s* - %s (QTD: %d)\n", Sanitize(e.Name), money.Format(e.UnitPrice), e.Quantity)
	}
	fmt.Fprintf(&b, "*Total:* %s\n", money.Format(ct.Total))
	fmt.Fprintf(&b, "*Comentários:* %s", d.Comments)
	return b.String()
}

// Clean trims and sanitizes every field.
func (d Details) Clean() Details {
	return Details{
		CustomerName: Sanitize(strings.TrimSpace(d.CustomerName)),
		Address:      Sanitize(strings.TrimSpace(d.Address)),
		Comments:     Sanitize(strings.TrimSpace(d.Comments)),
	}
}

var markup = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Sanitize escapes markup so untrusted text renders as inert text.
func Sanitize(s string) string {
	return markup.Replace(s)
}
