package currency

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	stripPattern  = regexp.MustCompile(`[^\d.-]`)
	leadingNumber = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)

	printer = message.NewPrinter(language.MustParse("en-AU"))
)

// Parse strips everything but digits, dots and minus signs and reads the
// longest leading decimal number. Anything unreadable is NaN.
func Parse(display string) float64 {
	cleaned := stripPattern.ReplaceAllString(display, "")
	lead := leadingNumber.FindString(cleaned)
	if lead == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(lead, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Format renders display as an en-AU dollar amount without the symbol:
// grouped thousands and exactly two decimals.
func Format(display string) string {
	return FormatValue(Parse(display))
}

func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}

	sign := ""
	if math.Signbit(v) {
		sign = "-"
		v = -v
	}

	whole, cents := roundCents(strconv.FormatFloat(v, 'f', -1, 64))
	return sign + group(whole) + "." + cents
}

// roundCents rounds the decimal string s half away from zero to two places.
// Working on the shortest decimal keeps 1.005 at 1.01 where the binary
// value sits just below it.
func roundCents(s string) (whole, cents string) {
	whole, frac, _ := strings.Cut(s, ".")
	frac += "000"
	digits := []byte(whole + frac[:2])
	if frac[2] >= '5' {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] < '9' {
				digits[i]++
				break
			}
			digits[i] = '0'
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}
	n := len(digits) - 2
	return string(digits[:n]), string(digits[n:])
}

// group inserts en-AU thousands separators into a run of digits.
func group(whole string) string {
	if i, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return printer.Sprint(number.Decimal(i))
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Plain renders display as an ungrouped number, e.g. "1,234.50" -> "1234.5".
// ok is false when display holds no number.
func Plain(display string) (string, bool) {
	v := Parse(display)
	if math.IsNaN(v) {
		return "", false
	}
	if v == 0 {
		return "0", true
	}
	return strconv.FormatFloat(v, 'f', -1, 64), true
}
