// Package currency formats monetary amounts in the display currency a
// user picked. Amounts are stored as plain numbers and never converted
// between currencies, so formatting is presentation only.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Info describes one supported display currency.
type Info struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Locale string `json:"locale"`
}

// Supported lists the selectable display currencies in menu order.
var Supported = []Info{
	{"USD", "US Dollar", "$", "en-US"},
	{"EUR", "Euro", "€", "de-DE"},
	{"GBP", "British Pound", "£", "en-GB"},
	{"JPY", "Japanese Yen", "¥", "ja-JP"},
	{"CAD", "Canadian Dollar", "C$", "en-CA"},
	{"AUD", "Australian Dollar", "A$", "en-AU"},
	{"CHF", "Swiss Franc", "CHF", "de-CH"},
	{"CNY", "Chinese Yuan", "¥", "zh-CN"},
	{"INR", "Indian Rupee", "₹", "en-IN"},
	{"BRL", "Brazilian Real", "R$", "pt-BR"},
	{"KRW", "South Korean Won", "₩", "ko-KR"},
	{"MXN", "Mexican Peso", "$", "es-MX"},
	{"SGD", "Singapore Dollar", "S$", "en-SG"},
	{"HKD", "Hong Kong Dollar", "HK$", "en-HK"},
	{"NOK", "Norwegian Krone", "kr", "nb-NO"},
	{"SEK", "Swedish Krona", "kr", "sv-SE"},
	{"DKK", "Danish Krone", "kr", "da-DK"},
	{"PLN", "Polish Złoty", "zł", "pl-PL"},
	{"RUB", "Russian Ruble", "₽", "ru-RU"},
	{"ZAR", "South African Rand", "R", "en-ZA"},
	{"TRY", "Turkish Lira", "₺", "tr-TR"},
	{"NZD", "New Zealand Dollar", "NZ$", "en-NZ"},
	{"THB", "Thai Baht", "฿", "th-TH"},
	{"MYR", "Malaysian Ringgit", "RM", "ms-MY"},
	{"IDR", "Indonesian Rupiah", "Rp", "id-ID"},
	{"PHP", "Philippine Peso", "₱", "en-PH"},
	{"VND", "Vietnamese Dong", "₫", "vi-VN"},
	{"AED", "UAE Dirham", "د.إ", "ar-AE"},
	{"SAR", "Saudi Riyal", "﷼", "ar-SA"},
	{"EGP", "Egyptian Pound", "£", "ar-EG"},
	{"ILS", "Israeli Shekel", "₪", "he-IL"},
}

var byCode = func() map[string]Info {
	m := make(map[string]Info, len(Supported))
	for _, c := range Supported {
		m[c.Code] = c
	}
	return m
}()

// Lookup returns the currency for code, or USD when code is unknown.
func Lookup(code string) Info {
	if c, ok := byCode[code]; ok {
		return c
	}
	return byCode["USD"]
}

// Supports reports whether code is a selectable currency.
func Supports(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Symbol returns the display symbol for code, "$" when unknown.
func Symbol(code string) string {
	return Lookup(code).Symbol
}

// Name returns the display name for code, "US Dollar" when unknown.
func Name(code string) string {
	return Lookup(code).Name
}

func fractionDigits(code string) int {
	switch code {
	case "JPY", "KRW", "VND":
		return 0
	default:
		return 2
	}
}

// Format renders amount with the currency's symbol and the digit
// grouping of its locale. Yen, won and dong render without decimals,
// everything else with exactly two.
func Format(amount float64, code string) string {
	c := Lookup(code)
	tag, err := language.Parse(c.Locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	digits := fractionDigits(c.Code)
	p := message.NewPrinter(tag)
	return p.Sprintf("%s%v", c.Symbol, number.Decimal(amount,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits)))
}
