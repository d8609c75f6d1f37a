package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Range is a parsed USD price range.
type Range struct {
	Low  float64
	High float64
}

var amountPattern = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// ParseRange extracts the low and high bounds from price-range text such as
// "$500 - $1,500". A single amount counts as both bounds.
func ParseRange(text string) (Range, error) {
	matches := amountPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return Range{}, fmt.Errorf("pricing: no dollar amount in %q", text)
	}

	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Range{}, fmt.Errorf("pricing: parse amount %q: %w", m[1], err)
		}
		amounts = append(amounts, value)
	}

	r := Range{Low: amounts[0], High: amounts[0]}
	if len(amounts) > 1 {
		r.High = amounts[len(amounts)-1]
	}
	if r.High < r.Low {
		r.Low, r.High = r.High, r.Low
	}
	return r, nil
}

// SumRanges adds the bounds of every parseable range. Entries without a
// recognizable amount are skipped rather than failing the whole total.
func SumRanges(texts []string) Range {
	var total Range
	for _, text := range texts {
		r, err := ParseRange(text)
		if err != nil {
			continue
		}
		total.Low += r.Low
		total.High += r.High
	}
	return total
}

// Format renders a range as display text, e.g. "$150 - $250".
func (r Range) Format() string {
	return fmt.Sprintf("%s - %s", formatAmount(r.Low), formatAmount(r.High))
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return "$" + groupThousands(strconv.FormatInt(int64(v), 10))
	}
	return "$" + groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

func groupThousands(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		if frac != "" {
			return intPart + "." + frac
		}
		return intPart
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(intPart[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteString("." + frac)
	}
	return b.String()
}
