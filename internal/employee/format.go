package employee

import (
	"regexp"
	"strconv"
	"strings"
)

const notInformed = "Not informed"

var nonMoney = regexp.MustCompile(`[^0-9,]`)

// SanitizeMoney drops everything but digits and commas.
func SanitizeMoney(s string) string {
	return nonMoney.ReplaceAllString(s, "")
}

// ShortName keeps the first and last word of a full name.
func ShortName(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return notInformed
	case 1:
		return words[0]
	default:
		return words[0] + " " + words[len(words)-1]
	}
}

// FirstName is the first word of name, or "" for a blank name.
func FirstName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// FormatBRL renders a stored money value such as "1234,5" as "R$ 1.234,50".
// Only the first comma is read as the decimal separator.
func FormatBRL(value string) string {
	clean := strings.Replace(SanitizeMoney(value), ",", ".", 1)
	if i := strings.IndexByte(clean, ','); i >= 0 {
		clean = clean[:i]
	}
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		n = 0
	}

	fixed := strconv.FormatFloat(n, 'f', 2, 64)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "R$ " + b.String() + "," + cents
}
