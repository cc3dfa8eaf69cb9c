package extract

import "strings"

// DescriptionNotFound is attached to an item row when no qualifying
// description line exists in the lookahead window, so the field is never
// absent downstream.
const DescriptionNotFound = "descripción no encontrada"

// descriptionLookahead bounds how many lines after an item row are considered
// as description candidates.
const descriptionLookahead = 2

// Prefixes that disqualify a candidate line: order reference, delivery note,
// shipping address and the vendor name.
var boilerplatePrefixes = []string{
	"Pedido",
	"Albarán",
	"Dirección de envío",
	"WURTH",
}

// AssociateDescription picks the free-text description for the item row at
// index i, scanning at most the two following lines. The nearest qualifying
// line wins. Lines starting with boilerplate, or carrying a currency mark
// (pricing continuations), are skipped.
func AssociateDescription(lines []string, i int) string {
	for off := 1; off <= descriptionLookahead; off++ {
		j := i + off
		if j >= len(lines) {
			break
		}
		candidate := strings.TrimSpace(lines[j])
		if candidate == "" || isBoilerplate(candidate) || containsCurrency(candidate) {
			continue
		}
		return candidate
	}
	return DescriptionNotFound
}

func isBoilerplate(line string) bool {
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func containsCurrency(line string) bool {
	return strings.Contains(line, "EUR") || strings.Contains(line, "€")
}
