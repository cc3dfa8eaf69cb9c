// Package stats computes descriptive statistics and a short-horizon spend
// forecast over an assembled record snapshot. Every aggregate is recomputed
// from scratch on each call; nothing here is incremental or stateful.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acervera/expenditure-control/internal/invoice"
)

// Month is a calendar year-month bucket key.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf buckets a date into its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m precedes o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthlySpend is one month's summed net value.
type MonthlySpend struct {
	Month Month
	Value decimal.Decimal
}

// ProductCount pairs a product description with an occurrence count.
type ProductCount struct {
	Description string
	Count       int
}

// ProductAmount pairs a product description with a summed amount.
type ProductAmount struct {
	Description string
	Amount      decimal.Decimal
}

// Summary holds the descriptive statistics over one snapshot of items and
// totals.
type Summary struct {
	TotalInvoices      int
	TotalItems         int
	TotalSpent         decimal.Decimal
	AvgItemPrice       decimal.Decimal
	MostExpensiveItem  *invoice.ItemRecord
	MonthlySpending    []MonthlySpend
	TopProducts        []ProductCount
	SpendingPerProduct []ProductAmount
	QuantityPerProduct []ProductAmount
	AvgInvoiceTotal    decimal.Decimal
	TotalTaxes         decimal.Decimal
}

// Summarize computes every aggregate over the snapshot. Items and totals are
// read only; arrival order matters solely for first-occurrence tie-breaking.
func Summarize(items []invoice.ItemRecord, totals []invoice.TotalsRecord) Summary {
	summary := Summary{
		TotalItems:      len(items),
		MonthlySpending: monthlySpending(items),
	}

	invoices := make(map[string]struct{})
	for i := range items {
		item := &items[i]

		if item.InvoiceNumber != "" {
			invoices[item.InvoiceNumber] = struct{}{}
		}
		summary.TotalSpent = summary.TotalSpent.Add(item.NetValue)

		if summary.MostExpensiveItem == nil || item.UnitPrice.GreaterThan(summary.MostExpensiveItem.UnitPrice) {
			summary.MostExpensiveItem = item
		}
	}
	summary.TotalInvoices = len(invoices)

	if len(items) > 0 {
		var priceSum decimal.Decimal
		for _, item := range items {
			priceSum = priceSum.Add(item.UnitPrice)
		}
		summary.AvgItemPrice = priceSum.Div(decimal.NewFromInt(int64(len(items))))
	}

	summary.TopProducts = topProducts(items)
	summary.SpendingPerProduct = perProduct(items, func(item invoice.ItemRecord) decimal.Decimal {
		return item.NetValue
	})
	summary.QuantityPerProduct = perProduct(items, func(item invoice.ItemRecord) decimal.Decimal {
		return item.Quantity
	})

	if len(totals) > 0 {
		var totalSum decimal.Decimal
		for _, total := range totals {
			totalSum = totalSum.Add(total.TotalAmount)
			summary.TotalTaxes = summary.TotalTaxes.Add(total.TaxAmount)
		}
		summary.AvgInvoiceTotal = totalSum.Div(decimal.NewFromInt(int64(len(totals))))
	}

	return summary
}

// monthlySpending groups net value by calendar month in ascending month
// order. Items without a valid invoice date are excluded first.
func monthlySpending(items []invoice.ItemRecord) []MonthlySpend {
	buckets := make(map[Month]decimal.Decimal)
	for _, item := range items {
		if item.InvoiceDate.IsZero() {
			continue
		}
		month := MonthOf(item.InvoiceDate)
		buckets[month] = buckets[month].Add(item.NetValue)
	}

	spending := make([]MonthlySpend, 0, len(buckets))
	for month, value := range buckets {
		spending = append(spending, MonthlySpend{Month: month, Value: value})
	}
	sort.Slice(spending, func(i, j int) bool {
		return spending[i].Month.Before(spending[j].Month)
	})
	return spending
}

// topProducts counts item rows per description, descending, ties broken by
// first occurrence.
func topProducts(items []invoice.ItemRecord) []ProductCount {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if _, ok := counts[item.Description]; !ok {
			order = append(order, item.Description)
		}
		counts[item.Description]++
	}

	products := make([]ProductCount, 0, len(order))
	for _, description := range order {
		products = append(products, ProductCount{Description: description, Count: counts[description]})
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Count > products[j].Count
	})
	return products
}

// perProduct sums the given field per distinct description, descending, ties
// broken by first occurrence.
func perProduct(items []invoice.ItemRecord, field func(invoice.ItemRecord) decimal.Decimal) []ProductAmount {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, item := range items {
		if _, ok := sums[item.Description]; !ok {
			order = append(order, item.Description)
		}
		sums[item.Description] = sums[item.Description].Add(field(item))
	}

	amounts := make([]ProductAmount, 0, len(order))
	for _, description := range order {
		amounts = append(amounts, ProductAmount{Description: description, Amount: sums[description]})
	}
	sort.SliceStable(amounts, func(i, j int) bool {
		return amounts[i].Amount.GreaterThan(amounts[j].Amount)
	})
	return amounts
}
