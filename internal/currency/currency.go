// Package currency provides the static exchange-rate table, linear
// conversion between supported currencies, and display formatting.
//
// Rates are fixed constants relative to USD; there is no live-rate lookup.
package currency

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Config describes one supported currency.
type Config struct {
	Code   string
	Symbol string
	Name   string
	// Rate is the number of units per one USD.
	Rate float64
}

// ErrUnknownCurrency signals a currency code outside the static table. It is
// a contract violation: codes are validated at the configuration and HTTP
// boundaries before reaching conversion.
var ErrUnknownCurrency = errors.New("unknown currency code")

// BaseCode is the reference currency amounts are stored in.
const BaseCode = "USD"

var configs = []Config{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: 1},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Rate: 83.12},
	{Code: "PKR", Symbol: "₨", Name: "Pakistani Rupee", Rate: 278.95},
}

// Supported returns the currency table in display order.
func Supported() []Config {
	out := make([]Config, len(configs))
	copy(out, configs)
	return out
}

// Lookup resolves a currency code.
func Lookup(code string) (Config, error) {
	for _, c := range configs {
		if c.Code == code {
			return c, nil
		}
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}

// IsSupported reports whether the code is in the table.
func IsSupported(code string) bool {
	_, err := Lookup(code)
	return err == nil
}

// Convert rescales an amount from one currency to another through the USD
// reference rate: v / rate[from] * rate[to].
func Convert(v float64, from, to string) (float64, error) {
	f, err := Lookup(from)
	if err != nil {
		return 0, err
	}
	t, err := Lookup(to)
	if err != nil {
		return 0, err
	}
	return v / f.Rate * t.Rate, nil
}

// Formatter renders amounts in a fixed target currency with locale-aware
// grouping: at most two fraction digits, none when the amount is whole.
type Formatter struct {
	cfg     Config
	printer *message.Printer
}

// NewFormatter builds a formatter for the given display currency.
func NewFormatter(code string) (*Formatter, error) {
	cfg, err := Lookup(code)
	if err != nil {
		return nil, err
	}
	return &Formatter{
		cfg:     cfg,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Code returns the formatter's currency code.
func (f *Formatter) Code() string {
	return f.cfg.Code
}

// Format renders a value already expressed in the formatter's currency.
func (f *Formatter) Format(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := f.cfg.Symbol + f.printer.Sprintf("%v",
		number.Decimal(v, number.MaxFractionDigits(2), number.MinFractionDigits(0)))
	if neg {
		return "-" + s
	}
	return s
}

// CentsValue converts base-currency cents into display-currency units,
// for callers that need the number rather than the rendered string.
func (f *Formatter) CentsValue(cents int64) float64 {
	v, err := Convert(float64(cents)/100, BaseCode, f.cfg.Code)
	if err != nil {
		return float64(cents) / 100
	}
	return v
}

// FormatCents converts base-currency cents into the display currency and
// formats the result.
func (f *Formatter) FormatCents(cents int64) string {
	v, err := Convert(float64(cents)/100, BaseCode, f.cfg.Code)
	if err != nil {
		// The formatter's own code was validated at construction.
		v = float64(cents) / 100
	}
	return f.Format(v)
}
