package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numeralPattern recognizes a decimal-comma numeral with an optional percent
// suffix. Exactly one comma acts as the decimal separator; a dot or a second
// comma makes the token malformed.
var numeralPattern = regexp.MustCompile(`^(\d+),(\d+)%?$`)

// ParseNumeral converts a locale numeral token such as "12,50" or "19,00%"
// into a decimal value. The percent suffix is stripped before conversion.
func ParseNumeral(token string) (decimal.Decimal, error) {
	m := numeralPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return decimal.Decimal{}, fmt.Errorf("malformed numeral %q", token)
	}
	d, err := decimal.NewFromString(m[1] + "." + m[2])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing numeral %q: %w", token, err)
	}
	return d, nil
}
