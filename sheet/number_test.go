// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package sheet

import "testing"

func TestFormatGroupsDigits(t *testing.T) {
	f := MustNumberFormat(DefaultLocale)
	cases := map[string]string{
		"0":                 "0",
		"1000":              "1,000",
		"1234567":           "1,234,567",
		"-1234.50":          "-1,234.50",
		"12.5":              "12.5",
		"abc":               "abc",
		"":                  "",
		"12345678901234567": "12345678901234567",
		"1e5":               "1e5",
		"007":               "007",
		"00012345":          "00012345",
		"-0":                "-0",
		"-0.00":             "-0.00",
		"0.05":              "0.05",
	}
	for in, want := range cases {
		if got := f.Format(in); got != want {
			t.Errorf("Format(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestParseStripsGrouping(t *testing.T) {
	f := MustNumberFormat(DefaultLocale)
	cases := map[string]string{
		"1,234":    "1234",
		" 12 ":     "12",
		"1,234.50": "1234.50",
		"+5":       "5",
		".5":       "0.5",
		"5.":       "5",
		"−3":       "-3",
	}
	for in, want := range cases {
		got, ok := f.Parse(in)
		if !ok || got != want {
			t.Errorf("Parse(%q): expected %q, got %q (ok=%v)", in, want, got, ok)
		}
	}
	for _, bad := range []string{"", "   ", "abc", "1-2", "1.2.3", "-", "."} {
		if got, ok := f.Parse(bad); ok {
			t.Errorf("Parse(%q): expected failure, got %q", bad, got)
		}
	}
}

func TestFormatParseOtherLocale(t *testing.T) {
	f, err := NewNumberFormat("de-DE")
	if err != nil {
		t.Fatalf("new format: %v", err)
	}
	group, decimal := f.Separators()
	if group != '.' || decimal != ',' {
		t.Fatalf("expected '.' and ',', got %q and %q", group, decimal)
	}
	if got := f.Format("1234.5"); got != "1.234,5" {
		t.Errorf("expected 1.234,5, got %q", got)
	}
	if got, ok := f.Parse("1.234,5"); !ok || got != "1234.5" {
		t.Errorf("expected 1234.5, got %q (ok=%v)", got, ok)
	}
}

func TestNewNumberFormatRejectsBadLocale(t *testing.T) {
	if _, err := NewNumberFormat("not a locale!"); err == nil {
		t.Errorf("expected error for malformed locale")
	}
	f, err := NewNumberFormat("")
	if err != nil {
		t.Fatalf("empty locale: %v", err)
	}
	if f.Locale() != DefaultLocale {
		t.Errorf("expected %s, got %s", DefaultLocale, f.Locale())
	}
}

func TestParsePasteMode(t *testing.T) {
	for in, want := range map[string]PasteMode{"": PasteNumeric, "numeric": PasteNumeric, "TEXT": PasteText} {
		got, err := ParsePasteMode(in)
		if err != nil || got != want {
			t.Errorf("ParsePasteMode(%q): expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParsePasteMode("rich"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}
