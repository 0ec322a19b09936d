package currency

import "testing"

func TestLookupFallsBackToUSD(t *testing.T) {
	c := Lookup("XXX")
	if c.Code != "USD" {
		t.Errorf("Lookup(XXX).Code = %q, want USD", c.Code)
	}
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"USD", "$"},
		{"EUR", "€"},
		{"JPY", "¥"},
		{"PLN", "zł"},
		{"unknown", "$"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Symbol(tt.code); got != tt.want {
				t.Errorf("Symbol(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestSupports(t *testing.T) {
	if !Supports("EUR") {
		t.Error("Supports(EUR) = false, want true")
	}
	if Supports("DOGE") {
		t.Error("Supports(DOGE) = true, want false")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"usd two decimals", 1234.5, "USD", "$1,234.50"},
		{"jpy no decimals", 1234, "JPY", "¥1,234"},
		{"krw no decimals", 50000, "KRW", "₩50,000"},
		{"unknown uses usd", 10, "XXX", "$10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.amount, tt.code); got != tt.want {
				t.Errorf("Format(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}
