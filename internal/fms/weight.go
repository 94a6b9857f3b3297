package fms

import (
	"math"
	"strconv"
	"strings"
)

// Weight is the result of parsing a weight cell.
// Parsed is false when the text could not be read as a number, in which case
// Grams is 0.
type Weight struct {
	Grams  float64
	Parsed bool
}

// Positive reports whether the weight takes part in the weight outputs.
func (w Weight) Positive() bool {
	return w.Grams > 0
}

// ParseWeight parses a raw cell. Null counts as "0".
func ParseWeight(raw any) Weight {
	if raw == nil {
		return ParseWeightText("0")
	}
	return ParseWeightText(Text(raw))
}

// ParseWeightText strips every "g" and "," from s, trims it and parses the
// rest as a decimal float. "1,234.5g" parses as 1234.5. Hex literals,
// NaN and values outside float64 range are not weights.
func ParseWeightText(s string) Weight {
	s = strings.ReplaceAll(s, "g", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if isHex(s) {
		return Weight{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Weight{}
	}
	return Weight{Grams: v, Parsed: true}
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
