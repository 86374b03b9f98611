package currency

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestConvertIdentity(t *testing.T) {
	got, err := Convert(100, "USD", "USD")
	if err != nil || got != 100 {
		t.Fatalf("Convert(100, USD, USD) = %f, %v; want 100", got, err)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	inr, err := Convert(100, "USD", "INR")
	if err != nil {
		t.Fatal(err)
	}
	if inr != 8312 {
		t.Fatalf("Convert(100, USD, INR) = %f, want 8312", inr)
	}
	back, err := Convert(inr, "INR", "USD")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back-100) > 1e-9 {
		t.Fatalf("round trip = %f, want 100", back)
	}
}

func TestConvertUnknownCode(t *testing.T) {
	if _, err := Convert(1, "USD", "XYZ"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := Convert(1, "", "USD"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestFormatterFormat(t *testing.T) {
	f, err := NewFormatter("USD")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		in   float64
		want string
	}{
		{1000, "$1,000"},
		{12.34, "$12.34"},
		{0, "$0"},
		{-5.5, "-$5.5"},
	}
	for _, tc := range cases {
		if got := f.Format(tc.in); got != tc.want {
			t.Fatalf("Format(%f) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatterMaxTwoFractionDigits(t *testing.T) {
	f, _ := NewFormatter("USD")
	got := f.Format(1.23456)
	i := strings.IndexByte(got, '.')
	if i >= 0 && len(got)-i-1 > 2 {
		t.Fatalf("Format(1.23456) = %q, more than 2 fraction digits", got)
	}
}

func TestFormatCentsConverts(t *testing.T) {
	f, err := NewFormatter("INR")
	if err != nil {
		t.Fatal(err)
	}
	// 100 USD at rate 83.12 -> ₹8,312
	if got := f.FormatCents(10000); got != "₹8,312" {
		t.Fatalf("FormatCents(10000) = %q, want ₹8,312", got)
	}
}

func TestNewFormatterUnknownCode(t *testing.T) {
	if _, err := NewFormatter("EUR"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestSupportedIsCopy(t *testing.T) {
	s := Supported()
	if len(s) != 3 {
		t.Fatalf("Supported() has %d entries, want 3", len(s))
	}
	s[0].Rate = 999
	if c, _ := Lookup("USD"); c.Rate != 1 {
		t.Fatal("mutating Supported() leaked into the table")
	}
}
