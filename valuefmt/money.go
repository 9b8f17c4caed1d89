package valuefmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qvd-go/qvd"
)

// CurrencyPosition controls where MoneyFormatter places the currency
// symbol relative to the amount.
type CurrencyPosition int

const (
	CurrencyPrecede CurrencyPosition = iota
	CurrencyFollow
)

// MoneyFormatter renders qvd.MoneyValue as a localized decimal string and
// can also produce the "positive;negative" Fmt pattern QVD stores in the
// field header.
type MoneyFormatter struct {
	ThousandSeparator      string
	DecimalSeparator       string
	CurrencySymbol         string
	CurrencySymbolPosition CurrencyPosition
	CurrencySpaceSeparated bool
	DecimalPrecision       int
}

// NewMoneyFormatter returns a MoneyFormatter with the reference
// implementation's defaults: no thousands grouping, "." as the decimal
// separator, no currency symbol, 2 decimal places.
func NewMoneyFormatter() MoneyFormatter {
	return MoneyFormatter{DecimalSeparator: ".", DecimalPrecision: 2}
}

func (f MoneyFormatter) Format(v qvd.Value) string {
	mv, ok := v.(qvd.MoneyValue)
	if !ok {
		return ""
	}

	var b strings.Builder

	if f.CurrencySymbol != "" && f.CurrencySymbolPosition == CurrencyPrecede {
		b.WriteString(f.CurrencySymbol)
		if f.CurrencySpaceSeparated {
			b.WriteString(" ")
		}
	}

	b.WriteString(f.formatAmount(mv.Calc))

	if f.CurrencySymbol != "" && f.CurrencySymbolPosition == CurrencyFollow {
		if f.CurrencySpaceSeparated {
			b.WriteString(" ")
		}

		b.WriteString(f.CurrencySymbol)
	}

	return b.String()
}

func (f MoneyFormatter) formatAmount(amount float64) string {
	precision := f.DecimalPrecision
	if precision < 0 {
		precision = 0
	}

	s := strconv.FormatFloat(amount, 'f', precision, 64)

	if f.ThousandSeparator != "" {
		s = groupThousands(s, f.ThousandSeparator)
	}

	if f.DecimalSeparator != "." {
		s = strings.Replace(s, ".", f.DecimalSeparator, 1)
	}

	return s
}

// groupThousands inserts sep every three digits of the integer part of a
// "-?ddd.ddd"-shaped decimal string.
func groupThousands(s, sep string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var grouped strings.Builder

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(sep)
		}

		grouped.WriteRune(r)
	}

	out := grouped.String()
	if hasFrac {
		out += "." + fracPart
	}

	if neg {
		out = "-" + out
	}

	return out
}

func (f MoneyFormatter) QvdFormatString() string {
	buildSide := func(negative bool) string {
		var b strings.Builder

		if f.CurrencySymbol != "" && f.CurrencySymbolPosition == CurrencyPrecede {
			b.WriteString(f.CurrencySymbol)
			if f.CurrencySpaceSeparated {
				b.WriteString(" ")
			}
		}

		if negative {
			b.WriteString("-")
		}

		thou := f.ThousandSeparator
		if thou == "" {
			b.WriteString("###")
		} else {
			fmt.Fprintf(&b, "#%s##", thou)
		}

		fmt.Fprintf(&b, "0%s%s", f.DecimalSeparator, strings.Repeat("0", f.DecimalPrecision))

		if f.CurrencySymbol != "" && f.CurrencySymbolPosition == CurrencyFollow {
			if f.CurrencySpaceSeparated {
				b.WriteString(" ")
			}

			b.WriteString(f.CurrencySymbol)
		}

		return b.String()
	}

	return buildSide(false) + ";" + buildSide(true)
}
