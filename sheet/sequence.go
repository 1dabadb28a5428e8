// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/sequence.go
// Summary: Arithmetic sequence detection and extrapolation for fill.

package sheet

import (
	"math"
	"strconv"
	"strings"
)

// Sequence describes a run of numbers with a constant difference. Values
// are compared and extrapolated as integers scaled by 10^Scale, so decimal
// inputs such as 0.1, 0.2, 0.3 are exact.
type Sequence struct {
	Numbers []float64
	Step    float64
	Scale   int

	scaled []int64
	step   int64
}

// DetectSequence reports whether every value is a number and consecutive
// differences are equal. A single number is a sequence with step 0. Empty or
// whitespace-only values are not numbers.
func DetectSequence(values []string) (Sequence, bool) {
	if len(values) == 0 {
		return Sequence{}, false
	}
	plains := make([]string, len(values))
	scale := 0
	for i, v := range values {
		plain, ok := plainNumber(v)
		if !ok {
			return Sequence{}, false
		}
		intPart, frac, _ := strings.Cut(strings.TrimPrefix(plain, "-"), ".")
		if len(intPart)+len(frac) > maxExactDigits {
			return Sequence{}, false
		}
		scale = max(scale, len(frac))
		plains[i] = plain
	}
	if scale > maxExactDigits {
		return Sequence{}, false
	}

	seq := Sequence{
		Numbers: make([]float64, len(plains)),
		Scale:   scale,
		scaled:  make([]int64, len(plains)),
	}
	for i, plain := range plains {
		n, ok := scaleNumber(plain, scale)
		if !ok {
			return Sequence{}, false
		}
		seq.scaled[i] = n
		seq.Numbers[i], _ = strconv.ParseFloat(plain, 64)
	}
	if len(seq.scaled) > 1 {
		seq.step = seq.scaled[1] - seq.scaled[0]
		for i := 2; i < len(seq.scaled); i++ {
			if seq.scaled[i]-seq.scaled[i-1] != seq.step {
				return Sequence{}, false
			}
		}
	}
	seq.Step = float64(seq.step) / math.Pow10(scale)
	return seq, true
}

// After returns the value k steps past the last element.
func (s Sequence) After(k int) string {
	last := s.scaled[len(s.scaled)-1]
	return formatScaled(last+int64(k)*s.step, s.Scale)
}

// Before returns the value k steps ahead of the first element.
func (s Sequence) Before(k int) string {
	return formatScaled(s.scaled[0]-int64(k)*s.step, s.Scale)
}

// scaleNumber turns a plain decimal string into an integer multiplied by
// 10^scale without going through floating point.
func scaleNumber(plain string, scale int) (int64, bool) {
	neg := strings.HasPrefix(plain, "-")
	intPart, frac, _ := strings.Cut(strings.TrimPrefix(plain, "-"), ".")
	digits := intPart + frac + strings.Repeat("0", scale-len(frac))
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// formatScaled is the inverse of scaleNumber.
func formatScaled(n int64, scale int) string {
	if scale == 0 {
		return strconv.FormatInt(n, 10)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	out := digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	if neg {
		out = "-" + out
	}
	return out
}
