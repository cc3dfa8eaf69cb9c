package extract

import (
	"regexp"
	"strings"
	"time"
)

const (
	invoiceNumberMarker = "Nº factura"
	invoiceDateMarker   = "Fecha"

	// DateLayout is the invoice dialect's date format (DD.MM.YYYY).
	DateLayout = "02.01.2006"
)

var (
	invoiceNumberPattern = regexp.MustCompile(`Nº factura\s+(\S+)`)
	invoiceDatePattern   = regexp.MustCompile(`Fecha\s+(\d{2}\.\d{2}\.\d{4})`)
)

// ScanInvoiceNumber returns the invoice number declared on the page: the
// non-whitespace token following the first marker line that carries one.
func ScanInvoiceNumber(lines []string) (string, bool) {
	for _, line := range lines {
		if !strings.Contains(line, invoiceNumberMarker) {
			continue
		}
		if m := invoiceNumberPattern.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ScanInvoiceDate returns the invoice date declared on the page. A marker
// line whose trailing token is not a parseable DD.MM.YYYY date is treated as
// a non-match and scanning continues with the following lines.
func ScanInvoiceDate(lines []string) (time.Time, bool) {
	for _, line := range lines {
		if !strings.Contains(line, invoiceDateMarker) {
			continue
		}
		m := invoiceDatePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, err := time.Parse(DateLayout, m[1])
		if err != nil {
			continue
		}
		return date, true
	}
	return time.Time{}, false
}
