package extract

import (
	"regexp"
	"strings"
)

// itemRowPattern matches one purchased line entry: a 13+ digit article number,
// position, quantity, unit price, product code, discount %, tax % and net
// value. Anchored to the whole line so description lines with long digit runs
// cannot false-positive.
var itemRowPattern = regexp.MustCompile(`^(\d{13,})\s+(\d+)\s+(\d+,\d+)\s+(\d+,\d+)\s+(\S+)\s+(\d+,\d+)\s+(\d+,\d+)\s+(\d+,\d+)$`)

// totalsRowPattern matches the invoice summary line: shipping, net value,
// tax rate (with trailing percent sign), tax amount and total amount. The
// shape is disjoint from itemRowPattern; callers check the item pattern first.
var totalsRowPattern = regexp.MustCompile(`^(\d+,\d+)\s+(\d+,\d+)\s+(\d+,\d+%)\s+(\d+,\d+)\s+(\d+,\d+)$`)

// MatchItemRow reports whether line is an item row and, if so, returns its
// eight positional fields in order: article number, position, quantity, unit
// price, product code, discount %, tax %, net value.
func MatchItemRow(line string) ([]string, bool) {
	m := itemRowPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// MatchTotalsRow reports whether line is a totals row and, if so, returns its
// five positional fields in order: shipping, net value, tax %, tax amount,
// total amount. The tax % field keeps its percent suffix in raw form.
func MatchTotalsRow(line string) ([]string, bool) {
	m := totalsRowPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, false
	}
	return m[1:], true
}
