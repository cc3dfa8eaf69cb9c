// Package extract turns the raw text of invoice pages into matched rows.
// Every function here is pure: page text in, positional string fields out.
// Numeric conversion happens later, at schema-binding time.
package extract

import (
	"strings"
	"time"
)

// Header carries the invoice metadata declared on a page. A zero
// InvoiceNumber or InvoiceDate means the page declared none; this is not an
// error.
type Header struct {
	InvoiceNumber string
	InvoiceDate   time.Time
}

// PageData is the structured result of scanning one page of invoice text.
// ItemRows hold the eight matched fields plus the associated description;
// TotalRows hold the five matched summary fields.
type PageData struct {
	Header    Header
	ItemRows  [][]string
	TotalRows [][]string
}

// ScanPage runs every matcher over one page of text. Lines matching neither
// pattern are filtered out silently; the item pattern takes precedence over
// the totals pattern.
func ScanPage(text string) PageData {
	lines := strings.Split(text, "\n")

	var page PageData
	if number, ok := ScanInvoiceNumber(lines); ok {
		page.Header.InvoiceNumber = number
	}
	if date, ok := ScanInvoiceDate(lines); ok {
		page.Header.InvoiceDate = date
	}

	for i, line := range lines {
		if fields, ok := MatchItemRow(line); ok {
			fields = append(fields, AssociateDescription(lines, i))
			page.ItemRows = append(page.ItemRows, fields)
			continue
		}
		if fields, ok := MatchTotalsRow(line); ok {
			page.TotalRows = append(page.TotalRows, fields)
		}
	}
	return page
}
