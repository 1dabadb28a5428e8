// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/number.go
// Summary: Locale-grouped number display and parsing for cell values.

package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale matches the grouping the grid has always used on copy.
const DefaultLocale = "ko-KR"

// maxExactDigits bounds the significant digits a value may carry before
// grouping would have to go through a lossy float conversion.
const maxExactDigits = 15

// NumberFormat renders plain numeric strings with locale digit grouping and
// parses grouped text back to plain form.
type NumberFormat struct {
	tag     language.Tag
	printer *message.Printer
	group   rune // 0 when the locale does not group
	decimal rune
}

// NewNumberFormat builds a format for a BCP-47 locale tag. An empty tag
// selects DefaultLocale.
func NewNumberFormat(locale string) (NumberFormat, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return NumberFormat{}, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return newNumberFormat(tag), nil
}

// MustNumberFormat is NewNumberFormat for compile-time constant tags.
func MustNumberFormat(locale string) NumberFormat {
	f, err := NewNumberFormat(locale)
	if err != nil {
		panic(err)
	}
	return f
}

func newNumberFormat(tag language.Tag) NumberFormat {
	p := message.NewPrinter(tag)
	f := NumberFormat{tag: tag, printer: p, decimal: '.'}

	// Discover separators from a sample value instead of hard-coding CLDR data.
	sample := p.Sprintf("%v", number.Decimal(1234567.5, number.MaxFractionDigits(1)))
	var seps []rune
	for _, r := range sample {
		if !unicode.IsDigit(r) {
			seps = append(seps, r)
		}
	}
	switch {
	case len(seps) >= 2:
		f.group = seps[0]
		f.decimal = seps[len(seps)-1]
	case len(seps) == 1:
		f.decimal = seps[0]
	}
	return f
}

// Locale returns the tag the format was built for.
func (f NumberFormat) Locale() string {
	return f.tag.String()
}

// Separators returns the group (0 if none) and decimal separators.
func (f NumberFormat) Separators() (group, decimal rune) {
	return f.group, f.decimal
}

// Format renders a plain numeric value ("-1234.50") with digit grouping
// ("-1,234.50"). Anything that is not a plain number is returned unchanged,
// and so are numbers grouping would rewrite: leading zeros ("007") and
// negative zero ("-0").
func (f NumberFormat) Format(value string) string {
	if f.printer == nil {
		return value
	}
	plain, ok := plainNumber(value)
	if !ok || keepVerbatim(plain) {
		return value
	}
	intPart, frac, _ := strings.Cut(strings.TrimPrefix(plain, "-"), ".")
	if len(intPart)+len(frac) > maxExactDigits {
		return value
	}
	scale := len(frac)
	if scale == 0 {
		n, err := strconv.ParseInt(plain, 10, 64)
		if err != nil {
			return value
		}
		return f.printer.Sprintf("%v", number.Decimal(n))
	}
	v, err := strconv.ParseFloat(plain, 64)
	if err != nil {
		return value
	}
	return f.printer.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(scale),
		number.MaxFractionDigits(scale)))
}

func keepVerbatim(plain string) bool {
	digits := strings.TrimPrefix(plain, "-")
	intPart, frac, _ := strings.Cut(digits, ".")
	if len(intPart) > 1 && intPart[0] == '0' {
		return true
	}
	return digits != plain && strings.Trim(intPart+frac, "0") == ""
}

// Parse converts grouped display text ("1,234.5", " 12 ") into a plain
// numeric string ("1234.5", "12"). ok is false for anything that is not a
// number once separators and surrounding whitespace are removed.
func (f NumberFormat) Parse(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", false
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case f.group != 0 && r == f.group:
			continue
		case r == f.decimal:
			b.WriteByte('.')
		case r == '−':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return plainNumber(b.String())
}

// plainNumber validates an ungrouped number with '.' as decimal point and
// returns its canonical form: no leading '+', a zero before a bare
// fraction, no trailing bare point.
func plainNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	intPart, frac, hasPoint := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return "", false
	}
	if !allDigits(intPart) || !allDigits(frac) {
		return "", false
	}
	if intPart == "" {
		intPart = "0"
	}
	out := intPart
	if hasPoint && frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// PasteMode decides what happens to clipboard cells that are not numbers.
type PasteMode int

const (
	// PasteNumeric coerces unparsable cells to "0".
	PasteNumeric PasteMode = iota
	// PasteText keeps unparsable cells verbatim.
	PasteText
)

func (m PasteMode) String() string {
	switch m {
	case PasteText:
		return "text"
	default:
		return "numeric"
	}
}

// ParsePasteMode maps the config spelling to a mode.
func ParsePasteMode(s string) (PasteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "numeric":
		return PasteNumeric, nil
	case "text":
		return PasteText, nil
	}
	return PasteNumeric, fmt.Errorf("unknown paste mode %q", s)
}
