package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.5", "R$ 12,50"},
		{"0", "R$ 0,00"},
		{"30", "R$ 30,00"},
		{"1234.567", "R$ 1234,57"},
		{"0.1", "R$ 0,10"},
	}
	for _, c := range cases {
		got := Format(decimal.RequireFromString(c.in))
		if got != c.want {
			t.Fatalf("Format(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseMenuPrice(t *testing.T) {
	cases := map[string]string{
		"R$ 8,00":              "8",
		"A partir de R$ 12,50": "12.5",
		"  R$ 39,90 ":          "39.9",
		"45":                   "45",
	}
	for in, want := range cases {
		got, err := ParseMenuPrice(in)
		if err != nil {
			t.Fatalf("ParseMenuPrice(%q): %v", in, err)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParseMenuPrice(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseMenuPriceInvalid(t *testing.T) {
	for _, in := range []string{"", "R$", "Consulte", "R$ abc"} {
		if _, err := ParseMenuPrice(in); !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("ParseMenuPrice(%q): expected ErrInvalidPrice, got %v", in, err)
		}
	}
}
